package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	domainmatching "github.com/ignatzorin/fairlance-backend/internal/domain/matching"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/service"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/matching"
)

// MatchRow строка рейтинга с ключом из фикстур.
type MatchRow struct {
	Rank      int                      `json:"rank"`
	Key       string                   `json:"key"`
	ID        uuid.UUID                `json:"id"`
	Score     float64                  `json:"score"`
	Breakdown domainmatching.Breakdown `json:"breakdown"`
}

type matchReport struct {
	Mode    string     `json:"mode"`
	Subject string     `json:"subject"`
	Results []MatchRow `json:"results"`
}

func (r matchReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s для %s:\n", r.Mode, r.Subject)
	if len(r.Results) == 0 {
		b.WriteString("  нет кандидатов")
		return b.String()
	}
	for i, row := range r.Results {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %2d. %-20s %6.2f  навыки %d/%d",
			row.Rank, row.Key, row.Score, row.Breakdown.MatchedSkills, row.Breakdown.RequiredSkills)
		if row.Breakdown.NewcomerBoostApplied {
			b.WriteString("  +новичок")
		}
	}
	return b.String()
}

func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file       string
		project    string
		freelancer string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Посчитать рейтинг подбора по YAML фикстурам",
		Long: `Загружает фикстуры в хранилище в памяти и печатает рейтинг:
фрилансеров для проекта (--project) или проектов для фрилансера (--freelancer).
База и конфигурация не нужны.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (project == "") == (freelancer == "") {
				return NewExitError(ExitCommandError, "нужно указать ровно один из флагов --project или --freelancer")
			}
			return runMatch(cmd, rootOpts, file, project, freelancer)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML файл с данными")
	cmd.Flags().StringVar(&project, "project", "", "ключ проекта из фикстур")
	cmd.Flags().StringVar(&freelancer, "freelancer", "", "ключ фрилансера из фикстур")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runMatch(cmd *cobra.Command, opts *RootOptions, file, projectKey, freelancerKey string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if !opts.Verbose {
		logger.SetOutput(io.Discard)
	}

	fixtures, err := service.LoadFixtures(file)
	if err != nil {
		_ = formatter.Error("FIXTURES_INVALID", err.Error())
		return WrapExitError(ExitCommandError, "не удалось прочитать фикстуры", err)
	}

	ctx := cmd.Context()
	store := memory.NewStore()
	seeded, err := service.NewSeedService(store).WithHashCost(bcrypt.MinCost).Seed(ctx, fixtures)
	if err != nil {
		_ = formatter.Error("SEED_FAILED", err.Error())
		return WrapExitError(ExitCommandError, "фикстуры не загружены", err)
	}
	formatter.VerboseLog("match: загружено %d пользователей и %d проектов", len(seeded.Users), len(seeded.Projects))

	var (
		report  matchReport
		results []domainmatching.Result
		names   map[uuid.UUID]string
	)
	if projectKey != "" {
		id, ok := seeded.Projects[projectKey]
		if !ok {
			_ = formatter.Error("UNKNOWN_KEY", fmt.Sprintf("проект %q не найден в фикстурах", projectKey))
			return NewExitError(ExitCommandError, "неизвестный проект")
		}
		report = matchReport{Mode: "freelancers", Subject: projectKey}
		names = invert(seeded.Users)
		results, err = matching.NewMatchFreelancersUseCase(store, nil, 0).Execute(ctx, id)
	} else {
		id, ok := seeded.Users[freelancerKey]
		if !ok {
			_ = formatter.Error("UNKNOWN_KEY", fmt.Sprintf("фрилансер %q не найден в фикстурах", freelancerKey))
			return NewExitError(ExitCommandError, "неизвестный фрилансер")
		}
		report = matchReport{Mode: "projects", Subject: freelancerKey}
		names = invert(seeded.Projects)
		results, err = matching.NewRecommendProjectsUseCase(store, nil, 0).Execute(ctx, id)
	}
	if err != nil {
		_ = formatter.Error("MATCH_FAILED", err.Error())
		return WrapExitError(ExitFailure, "подбор не выполнен", err)
	}

	report.Results = make([]MatchRow, 0, len(results))
	for i, r := range results {
		report.Results = append(report.Results, MatchRow{
			Rank:      i + 1,
			Key:       names[r.ID],
			ID:        r.ID,
			Score:     r.Score,
			Breakdown: r.Breakdown,
		})
	}
	return formatter.Success(report)
}

func invert(m map[string]uuid.UUID) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
