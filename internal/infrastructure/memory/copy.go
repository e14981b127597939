package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
)

func copyIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return append([]uuid.UUID(nil), ids...)
}

func copyStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return append([]string(nil), v...)
}

func copyIDPtr(p *uuid.UUID) *uuid.UUID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyProfile(p entity.Profile) entity.Profile {
	p.Skills = copyIDs(p.Skills)
	p.PortfolioLinks = copyStrings(p.PortfolioLinks)
	p.Languages = copyStrings(p.Languages)
	p.HourlyRate = copyFloatPtr(p.HourlyRate)
	p.AvatarURL = copyStringPtr(p.AvatarURL)
	p.Location = copyStringPtr(p.Location)
	return p
}

func copyProject(p entity.Project) entity.Project {
	p.RequiredSkills = copyIDs(p.RequiredSkills)
	p.Attachments = copyStrings(p.Attachments)
	p.CategoryID = copyIDPtr(p.CategoryID)
	p.EscrowTransactionID = copyIDPtr(p.EscrowTransactionID)
	p.Deadline = copyTimePtr(p.Deadline)
	return p
}

func copyProposal(p entity.Proposal) entity.Proposal {
	milestones := make([]entity.Milestone, len(p.Milestones))
	for i, m := range p.Milestones {
		m.DueDate = copyTimePtr(m.DueDate)
		milestones[i] = m
	}
	p.Milestones = milestones
	return p
}

func copyEscrow(t entity.EscrowTransaction) entity.EscrowTransaction {
	t.FreelancerID = copyIDPtr(t.FreelancerID)
	t.DisputeReason = copyStringPtr(t.DisputeReason)
	t.ReleasedAt = copyTimePtr(t.ReleasedAt)
	return t
}

func copyNotification(n entity.Notification) entity.Notification {
	n.RelatedID = copyIDPtr(n.RelatedID)
	return n
}

// sortBySeq упорядочивает идентификаторы по времени вставки.
func (s *state) sortBySeq(ids []uuid.UUID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return s.seq[ids[i]] < s.seq[ids[j]]
	})
}
