package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type proposalRepo struct{ s *Store }

func (r *proposalRepo) Create(ctx context.Context, proposal *entity.Proposal) error {
	defer r.s.lock()()
	for _, p := range r.s.data.proposals {
		if p.ProjectID == proposal.ProjectID && p.FreelancerID == proposal.FreelancerID {
			return apperror.New(apperror.ErrCodeValidation, "вы уже откликнулись на этот проект")
		}
	}
	r.s.data.proposals[proposal.ID] = copyProposal(*proposal)
	r.s.data.touch(proposal.ID)
	return nil
}

func (r *proposalRepo) Update(ctx context.Context, proposal *entity.Proposal) error {
	defer r.s.lock()()
	if _, ok := r.s.data.proposals[proposal.ID]; !ok {
		return apperror.ErrProposalNotFound
	}
	r.s.data.proposals[proposal.ID] = copyProposal(*proposal)
	return nil
}

func (r *proposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	defer r.s.lock()()
	p, ok := r.s.data.proposals[id]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	cp := copyProposal(p)
	return &cp, nil
}

func (r *proposalRepo) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*entity.Proposal, error) {
	defer r.s.lock()()
	return r.collect(func(p *entity.Proposal) bool { return p.ProjectID == projectID }), nil
}

func (r *proposalRepo) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Proposal, error) {
	defer r.s.lock()()
	return r.collect(func(p *entity.Proposal) bool { return p.FreelancerID == freelancerID }), nil
}

func (r *proposalRepo) FindByProjectAndFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (*entity.Proposal, error) {
	defer r.s.lock()()
	found := r.collect(func(p *entity.Proposal) bool {
		return p.ProjectID == projectID && p.FreelancerID == freelancerID
	})
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *proposalRepo) collect(match func(*entity.Proposal) bool) []*entity.Proposal {
	ids := make([]uuid.UUID, 0)
	for id, p := range r.s.data.proposals {
		if match(&p) {
			ids = append(ids, id)
		}
	}
	r.s.data.sortBySeq(ids)

	result := make([]*entity.Proposal, 0, len(ids))
	for _, id := range ids {
		cp := copyProposal(r.s.data.proposals[id])
		result = append(result, &cp)
	}
	return result
}
