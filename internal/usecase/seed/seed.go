package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"remedia/internal/domain/lifecycle"
	"remedia/internal/errs"
	"remedia/internal/ports"
)

// Service loads demo tenant data from a TOML file. Intended for local
// evaluation only; production records arrive through the application layer.
type Service struct {
	records ports.RecordsRepository
	uow     ports.UnitOfWork
}

func NewService(records ports.RecordsRepository, uow ports.UnitOfWork) *Service {
	return &Service{
		records: records,
		uow:     uow,
	}
}

type TaskSeed struct {
	Name   string `toml:"name"`
	Status string `toml:"status"`
}

type CapaSeed struct {
	Title  string     `toml:"title"`
	Status string     `toml:"status"`
	Issue  string     `toml:"issue"`
	Tasks  []TaskSeed `toml:"tasks"`
}

type IssueSeed struct {
	Key    string `toml:"key"`
	Title  string `toml:"title"`
	Status string `toml:"status"`
}

type File struct {
	Tenant string      `toml:"tenant"`
	Issues []IssueSeed `toml:"issues"`
	Capas  []CapaSeed  `toml:"capas"`
}

type Result struct {
	Issues int
	Capas  int
	Tasks  int
}

// LoadFile parses and validates a seed file without touching the database.
func LoadFile(path string) (File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return File{}, errors.New("seed file is required")
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return File{}, errs.Wrap(err, "read seed file")
	}

	var file File
	if err := toml.Unmarshal(raw, &file); err != nil {
		return File{}, errs.Wrap(err, "parse seed file")
	}
	if err := validate(file); err != nil {
		return File{}, err
	}
	return file, nil
}

func validate(file File) error {
	if strings.TrimSpace(file.Tenant) == "" {
		return errors.New("tenant is required")
	}

	issueKeys := make(map[string]bool, len(file.Issues))
	for i, issue := range file.Issues {
		if strings.TrimSpace(issue.Title) == "" {
			return fmt.Errorf("issues[%d]: title is required", i)
		}
		if issue.Status != "" {
			if _, ok := lifecycle.ParseIssueStatus(issue.Status); !ok {
				return fmt.Errorf("issues[%d]: unknown status %q", i, issue.Status)
			}
		}
		if key := strings.TrimSpace(issue.Key); key != "" {
			if issueKeys[key] {
				return fmt.Errorf("issues[%d]: duplicate key %q", i, key)
			}
			issueKeys[key] = true
		}
	}

	for i, capa := range file.Capas {
		if strings.TrimSpace(capa.Title) == "" {
			return fmt.Errorf("capas[%d]: title is required", i)
		}
		if capa.Status != "" {
			if _, ok := lifecycle.ParseCapaStatus(capa.Status); !ok {
				return fmt.Errorf("capas[%d]: unknown status %q", i, capa.Status)
			}
		}
		if ref := strings.TrimSpace(capa.Issue); ref != "" && !issueKeys[ref] {
			return fmt.Errorf("capas[%d]: unknown issue key %q", i, ref)
		}
		for j, task := range capa.Tasks {
			if strings.TrimSpace(task.Name) == "" {
				return fmt.Errorf("capas[%d].tasks[%d]: name is required", i, j)
			}
			if task.Status != "" {
				if _, ok := lifecycle.ParseTaskStatus(task.Status); !ok {
					return fmt.Errorf("capas[%d].tasks[%d]: unknown status %q", i, j, task.Status)
				}
			}
		}
	}

	return nil
}

// Apply inserts the seed records in one transaction so a broken file never
// leaves a half-seeded tenant behind.
func (s *Service) Apply(ctx context.Context, file File) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(err, "check context")
	}
	if s.records == nil {
		return Result{}, errors.New("records repository is required")
	}
	if s.uow == nil {
		return Result{}, errors.New("unit of work is required")
	}
	if err := validate(file); err != nil {
		return Result{}, err
	}

	tenantID := strings.TrimSpace(file.Tenant)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var result Result
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		issueIDsByKey := make(map[string]string, len(file.Issues))

		for _, seed := range file.Issues {
			status := lifecycle.IssueOpen
			if seed.Status != "" {
				status, _ = lifecycle.ParseIssueStatus(seed.Status)
			}

			created, err := s.records.CreateIssue(txCtx, ports.Issue{
				TenantID:  tenantID,
				Title:     strings.TrimSpace(seed.Title),
				Status:    status,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			result.Issues++

			if key := strings.TrimSpace(seed.Key); key != "" {
				issueIDsByKey[key] = created.IssueID
			}
		}

		for _, seed := range file.Capas {
			status := lifecycle.CapaPlanned
			if seed.Status != "" {
				status, _ = lifecycle.ParseCapaStatus(seed.Status)
			}

			var issueID *string
			if ref := strings.TrimSpace(seed.Issue); ref != "" {
				id := issueIDsByKey[ref]
				issueID = &id
			}

			created, err := s.records.CreateCapa(txCtx, ports.Capa{
				TenantID:  tenantID,
				Title:     strings.TrimSpace(seed.Title),
				Status:    status,
				IssueID:   issueID,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			result.Capas++

			for _, taskSeed := range seed.Tasks {
				status := lifecycle.TaskPending
				if taskSeed.Status != "" {
					status, _ = lifecycle.ParseTaskStatus(taskSeed.Status)
				}

				if _, err := s.records.CreateCapaTask(txCtx, ports.CapaTask{
					CapaID:    created.CapaID,
					TenantID:  tenantID,
					Name:      strings.TrimSpace(taskSeed.Name),
					Status:    status,
					CreatedAt: now,
					UpdatedAt: now,
				}); err != nil {
					return err
				}
				result.Tasks++
			}
		}

		return nil
	}); err != nil {
		return Result{}, err
	}

	return result, nil
}
