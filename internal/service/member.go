package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/miarma/api/internal/async"
	"github.com/miarma/api/internal/lib/password"
	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/repository"
	"github.com/miarma/api/internal/validation"
	"github.com/rs/zerolog"
)

// CreateMemberInput registers a new garden member together with the user
// account behind it.
type CreateMemberInput struct {
	DisplayName  string             `json:"display_name" validate:"required,max=100"`
	Email        *string            `json:"email" validate:"omitempty,email"`
	Password     string             `json:"password" validate:"required,min=8,max=72"`
	Avatar       *string            `json:"avatar"`
	MemberNumber int                `json:"member_number" validate:"required,min=1"`
	PlotNumber   int                `json:"plot_number" validate:"min=0"`
	DNI          string             `json:"dni" validate:"required,max=20"`
	Phone        string             `json:"phone" validate:"required,max=20"`
	Type         model.MemberType   `json:"type" validate:"min=0,max=5"`
	Status       model.MemberStatus `json:"status" validate:"min=0,max=1"`
	Role         model.MemberRole   `json:"role" validate:"min=0,max=2"`
	Notes        *string            `json:"notes"`
}

func (in *CreateMemberInput) Validate() error {
	in.Email = blankToNil(in.Email)
	return validation.Validate.Struct(in)
}

// UpdateMemberInput replaces a member's data. Nullable metadata fields left
// empty are cleared; an empty Password keeps the current one.
type UpdateMemberInput struct {
	DisplayName   string             `json:"display_name" validate:"required,max=100"`
	Email         *string            `json:"email" validate:"omitempty,email"`
	Password      *string            `json:"password" validate:"omitempty,min=8,max=72"`
	Avatar        *string            `json:"avatar"`
	MemberNumber  int                `json:"member_number" validate:"required,min=1"`
	PlotNumber    int                `json:"plot_number" validate:"min=0"`
	DNI           string             `json:"dni" validate:"required,max=20"`
	Phone         string             `json:"phone" validate:"required,max=20"`
	Type          model.MemberType   `json:"type" validate:"min=0,max=5"`
	Status        model.MemberStatus `json:"status" validate:"min=0,max=1"`
	Role          model.MemberRole   `json:"role" validate:"min=0,max=2"`
	Notes         *string            `json:"notes"`
	AssignedAt    *time.Time         `json:"assigned_at"`
	DeactivatedAt *time.Time         `json:"deactivated_at"`
}

func (in *UpdateMemberInput) Validate() error {
	in.Email = blankToNil(in.Email)
	in.Password = blankToNil(in.Password)
	return validation.Validate.Struct(in)
}

type MemberService struct {
	members  repository.Reader[model.Member]
	users    repository.DAO[model.User]
	metadata repository.DAO[model.UserMetadata]
	hasher   password.Hasher
	logger   *zerolog.Logger
}

func NewMemberService(repos *repository.Repositories, hasher password.Hasher, logger *zerolog.Logger) *MemberService {
	return &MemberService{
		members:  repos.Members,
		users:    repos.Users,
		metadata: repos.UserMetadata,
		hasher:   hasher,
		logger:   nopLogger(logger),
	}
}

func isDeveloper(m *model.Member) bool {
	return m.Type == model.MemberTypeDeveloper
}

// GetAll lists every member except developer accounts.
func (s *MemberService) GetAll(ctx context.Context) ([]*model.Member, error) {
	members, err := s.members.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(members, isDeveloper), nil
}

// Find lists the members selected by query-string filters, except
// developer accounts.
func (s *MemberService) Find(ctx context.Context, params url.Values) ([]*model.Member, error) {
	members, err := s.members.FindParams(ctx, params)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(members, isDeveloper), nil
}

func (s *MemberService) first(ctx context.Context, match func(*model.Member) bool) (*model.Member, error) {
	members, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(members, match)
	if i < 0 {
		return nil, notFound("Member")
	}
	return members[i], nil
}

func (s *MemberService) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	return s.first(ctx, func(m *model.Member) bool { return m.UserID == id })
}

func (s *MemberService) GetByMemberNumber(ctx context.Context, n int) (*model.Member, error) {
	return s.first(ctx, func(m *model.Member) bool { return m.MemberNumber == n })
}

func (s *MemberService) GetByPlotNumber(ctx context.Context, n int) (*model.Member, error) {
	return s.first(ctx, func(m *model.Member) bool { return m.PlotNumber == n })
}

func (s *MemberService) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	return s.first(ctx, func(m *model.Member) bool {
		return m.Email != nil && strings.EqualFold(*m.Email, email)
	})
}

func (s *MemberService) GetByDNI(ctx context.Context, dni string) (*model.Member, error) {
	return s.first(ctx, func(m *model.Member) bool { return strings.EqualFold(m.DNI, dni) })
}

func (s *MemberService) GetByPhone(ctx context.Context, phone string) (*model.Member, error) {
	return s.first(ctx, func(m *model.Member) bool { return m.Phone == phone })
}

// GetWaitlist lists active members still waiting for a plot.
func (s *MemberService) GetWaitlist(ctx context.Context) ([]*model.Member, error) {
	members, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(members, func(m *model.Member) bool {
		return m.Type != model.MemberTypeWaitList || m.Status != model.MemberStatusActive
	}), nil
}

// GetLastMemberNumber returns the highest member number in use, or zero.
func (s *MemberService) GetLastMemberNumber(ctx context.Context) (int, error) {
	members, err := s.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	last := 0
	for _, m := range members {
		last = max(last, m.MemberNumber)
	}
	return last, nil
}

type memberRows struct {
	user *model.User
	meta *model.UserMetadata
}

// Create stores the user, then its garden metadata, then renames the user
// after the assigned member number. The user row is removed again when the
// metadata cannot be stored.
func (s *MemberService) Create(ctx context.Context, in *CreateMemberInput) (*model.Member, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserName:     "pending-" + uuid.NewString(),
		Email:        blankToNil(in.Email),
		DisplayName:  in.DisplayName,
		Password:     hash,
		Avatar:       in.Avatar,
		GlobalStatus: model.GlobalStatusActive,
		GlobalRole:   model.GlobalRoleUser,
	}

	inserted := async.Go(ctx, func(ctx context.Context) (*model.User, error) {
		return s.users.Insert(ctx, user)
	})

	stored := async.Then(ctx, inserted, func(ctx context.Context, u *model.User) (memberRows, error) {
		if u == nil {
			return memberRows{}, errors.New("user insert returned no row")
		}
		meta, err := s.metadata.Insert(ctx, &model.UserMetadata{
			UserID:       u.ID,
			MemberNumber: in.MemberNumber,
			PlotNumber:   in.PlotNumber,
			DNI:          in.DNI,
			Phone:        in.Phone,
			Type:         in.Type,
			Status:       in.Status,
			Role:         in.Role,
			Notes:        in.Notes,
		})
		if err != nil {
			if _, derr := s.users.Delete(ctx, u.ID); derr != nil {
				s.logger.Error().Err(derr).Int64("user_id", u.ID).Msg("failed to remove orphaned user")
			}
			return memberRows{}, err
		}
		return memberRows{user: u, meta: meta}, nil
	})

	renamed := async.Then(ctx, stored, func(ctx context.Context, rows memberRows) (*model.Member, error) {
		u := *rows.user
		u.UserName = memberUserName(u.DisplayName, rows.meta.MemberNumber)
		updated, err := s.users.Update(ctx, &u)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, fmt.Errorf("user %d vanished during member creation", u.ID)
		}
		return model.JoinMember(updated, rows.meta), nil
	})

	return renamed.Await(ctx)
}

// memberUserName derives the login name: the first word of the display
// name, lowercased, followed by the member number.
func memberUserName(displayName string, memberNumber int) string {
	first := "member"
	if fields := strings.Fields(displayName); len(fields) > 0 {
		first = strings.ToLower(fields[0])
	}
	return first + strconv.Itoa(memberNumber)
}

// Update rewrites the user and the whole metadata row of a member.
func (s *MemberService) Update(ctx context.Context, id int64, in *UpdateMemberInput) (*model.Member, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	meta, err := s.metadata.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || meta == nil {
		return nil, notFound("Member")
	}

	user.DisplayName = in.DisplayName
	user.Email = blankToNil(in.Email)
	user.Avatar = in.Avatar
	if p := blankToNil(in.Password); p != nil {
		if user.Password, err = s.hasher.Hash(*p); err != nil {
			return nil, err
		}
	}
	if _, err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	meta.MemberNumber = in.MemberNumber
	meta.PlotNumber = in.PlotNumber
	meta.DNI = in.DNI
	meta.Phone = in.Phone
	meta.Type = in.Type
	meta.Status = in.Status
	meta.Role = in.Role
	meta.Notes = in.Notes
	meta.AssignedAt = in.AssignedAt
	meta.DeactivatedAt = in.DeactivatedAt
	if _, err := s.metadata.UpdateWithNulls(ctx, meta); err != nil {
		return nil, err
	}

	member, err := s.members.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, notFound("Member")
	}
	return member, nil
}

// Delete removes a member's user and metadata rows and returns the member
// as it was.
func (s *MemberService) Delete(ctx context.Context, id int64) (*model.Member, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.metadata.Delete(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.users.Delete(ctx, id); err != nil {
		return nil, err
	}
	return member, nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
