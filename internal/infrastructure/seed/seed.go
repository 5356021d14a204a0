// Package seed loads the initial roster and task set from YAML.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

//go:embed seed.yaml
var defaultSeed []byte

const dateLayout = "2006-01-02"

// Data is a decoded seed file.
type Data struct {
	Users []*domain.User
	Tasks []*domain.Task
}

type file struct {
	Users []userRecord `yaml:"users"`
	Tasks []taskRecord `yaml:"tasks"`
}

type userRecord struct {
	ID         string `yaml:"id"`
	Email      string `yaml:"email"`
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
	Avatar     string `yaml:"avatar"`
	Department string `yaml:"department"`
	JoinedAt   string `yaml:"joined_at"`
	// Password is hashed on load; entries without one accept any password.
	Password string `yaml:"password"`
}

type taskRecord struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Priority    string `yaml:"priority"`
	Type        string `yaml:"type"`
	Assignee    string `yaml:"assignee"`
	Reporter    string `yaml:"reporter"`
	CreatedAt   string `yaml:"created_at"`
	UpdatedAt   string `yaml:"updated_at"`
	DueDate     string `yaml:"due_date"`
	Project     string `yaml:"project"`
	Location    string `yaml:"location"`
	Age         int    `yaml:"age"`
	Gender      string `yaml:"gender"`
	Channel     string `yaml:"channel"`
}

// Load reads path, or the embedded default seed when path is empty.
func Load(path string) (*Data, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes and validates a seed document.
func Parse(raw []byte) (*Data, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	data := &Data{}
	for i, rec := range f.Users {
		u, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		data.Users = append(data.Users, u)
	}
	for i, rec := range f.Tasks {
		t, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("seed task %d: %w", i, err)
		}
		data.Tasks = append(data.Tasks, t)
	}
	return data, nil
}

func (r userRecord) toDomain() (*domain.User, error) {
	joined, err := parseDate(r.JoinedAt)
	if err != nil {
		return nil, fmt.Errorf("joined_at: %w", err)
	}
	u := &domain.User{
		ID:         r.ID,
		Email:      domain.NormalizeEmail(r.Email),
		Name:       r.Name,
		Role:       domain.Role(r.Role),
		Avatar:     r.Avatar,
		Department: r.Department,
		JoinedAt:   joined,
	}
	if u.ID == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidUser)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if r.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	return u, nil
}

func (r taskRecord) toDomain() (*domain.Task, error) {
	var dates [3]time.Time
	for i, s := range []string{r.CreatedAt, r.UpdatedAt, r.DueDate} {
		d, err := parseDate(s)
		if err != nil {
			return nil, err
		}
		dates[i] = d
	}
	t := &domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.TaskPriority(r.Priority),
		Type:        domain.TaskType(r.Type),
		Assignee:    r.Assignee,
		Reporter:    r.Reporter,
		Project:     r.Project,
		Location:    r.Location,
		Age:         r.Age,
		Gender:      r.Gender,
		Channel:     r.Channel,
		CreatedAt:   dates[0],
		UpdatedAt:   dates[1],
		DueDate:     dates[2],
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.DueDate.IsZero() {
		t.DueDate = domain.DefaultDueDate(t.Priority, t.CreatedAt)
	}
	if t.Assignee == "" {
		t.Assignee = domain.UnassignedAssignee
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	return t, nil
}

// Result counts what Apply inserted.
type Result struct {
	Users int
	Tasks int
}

// Apply inserts every seed record that is not stored yet. Existing records
// are left as they are, so Apply can run on every start.
func Apply(ctx context.Context, users ports.UserRepository, tasks ports.TaskRepository, data *Data) (Result, error) {
	var res Result
	for _, u := range data.Users {
		err := users.Create(ctx, u.Clone())
		switch {
		case err == nil:
			res.Users++
		case errors.Is(err, domain.ErrUserExists):
		default:
			return res, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, t := range data.Tasks {
		_, err := tasks.FindByID(ctx, t.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrTaskNotFound) {
			return res, fmt.Errorf("seed task %s: %w", t.ID, err)
		}
		if err := tasks.Create(ctx, t.Clone()); err != nil {
			return res, fmt.Errorf("seed task %s: %w", t.ID, err)
		}
		res.Tasks++
	}
	return res, nil
}

// ApplyIfEmpty runs Apply only when both repositories hold no records, so a
// restart never brings back entries that were deleted through the API.
func ApplyIfEmpty(ctx context.Context, users ports.UserRepository, tasks ports.TaskRepository, data *Data) (Result, error) {
	existingUsers, err := users.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: list users: %w", err)
	}
	existingTasks, err := tasks.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: list tasks: %w", err)
	}
	if len(existingUsers) > 0 || len(existingTasks) > 0 {
		return Result{}, nil
	}
	return Apply(ctx, users, tasks, data)
}
