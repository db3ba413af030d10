package model

import (
	"time"

	"github.com/miarma/api/internal/entity"
	"github.com/shopspring/decimal"
)

type MemberType int

const (
	MemberTypeWaitList MemberType = iota
	MemberTypeMember
	MemberTypeWithGreenhouse
	MemberTypeCollaborator
	MemberTypeSubsidy
	MemberTypeDeveloper
)

type MemberStatus int

const (
	MemberStatusInactive MemberStatus = iota
	MemberStatusActive
)

type MemberRole int

const (
	MemberRoleUser MemberRole = iota
	MemberRoleAdmin
	MemberRoleDeveloper
)

// UserMetadata holds the garden membership of a user, keyed by user id.
type UserMetadata struct {
	UserID        int64        `json:"user_id"`
	MemberNumber  int          `json:"member_number"`
	PlotNumber    int          `json:"plot_number"`
	DNI           string       `json:"dni"`
	Phone         string       `json:"phone"`
	Type          MemberType   `json:"type"`
	Status        MemberStatus `json:"status"`
	Role          MemberRole   `json:"role"`
	Notes         *string      `json:"notes,omitempty"`
	CreatedAt     *time.Time   `json:"created_at,omitempty"`
	AssignedAt    *time.Time   `json:"assigned_at,omitempty"`
	DeactivatedAt *time.Time   `json:"deactivated_at,omitempty"`
}

func (UserMetadata) Schema() entity.Schema[UserMetadata] {
	return entity.Schema[UserMetadata]{
		Table: "huertos_user_metadata",
		Columns: []entity.Column[UserMetadata]{
			entity.Col("user_id", func(m *UserMetadata) *int64 { return &m.UserID }).Key(),
			entity.Col("member_number", func(m *UserMetadata) *int { return &m.MemberNumber }),
			entity.Col("plot_number", func(m *UserMetadata) *int { return &m.PlotNumber }),
			entity.Col("dni", func(m *UserMetadata) *string { return &m.DNI }),
			entity.Col("phone", func(m *UserMetadata) *string { return &m.Phone }),
			entity.Col("type", func(m *UserMetadata) *MemberType { return &m.Type }).As(entity.KindInt),
			entity.Col("status", func(m *UserMetadata) *MemberStatus { return &m.Status }).As(entity.KindInt),
			entity.Col("role", func(m *UserMetadata) *MemberRole { return &m.Role }).As(entity.KindInt),
			entity.NullCol("notes", func(m *UserMetadata) **string { return &m.Notes }),
			entity.NullCol("created_at", func(m *UserMetadata) **time.Time { return &m.CreatedAt }),
			entity.NullCol("assigned_at", func(m *UserMetadata) **time.Time { return &m.AssignedAt }),
			entity.NullCol("deactivated_at", func(m *UserMetadata) **time.Time { return &m.DeactivatedAt }),
		},
	}
}

// Member is a read-only projection of a user joined with their garden
// metadata, backed by the v_huertos_members view.
type Member struct {
	UserID        int64        `json:"user_id"`
	DisplayName   string       `json:"display_name"`
	Email         *string      `json:"email,omitempty"`
	Password      string       `json:"-"`
	Avatar        *string      `json:"avatar,omitempty"`
	MemberNumber  int          `json:"member_number"`
	PlotNumber    int          `json:"plot_number"`
	DNI           string       `json:"dni"`
	Phone         string       `json:"phone"`
	Type          MemberType   `json:"type"`
	Status        MemberStatus `json:"status"`
	Role          MemberRole   `json:"role"`
	Notes         *string      `json:"notes,omitempty"`
	CreatedAt     *time.Time   `json:"created_at,omitempty"`
	AssignedAt    *time.Time   `json:"assigned_at,omitempty"`
	DeactivatedAt *time.Time   `json:"deactivated_at,omitempty"`
}

func (Member) Schema() entity.Schema[Member] {
	return entity.Schema[Member]{
		Table: "v_huertos_members",
		Columns: []entity.Column[Member]{
			entity.Col("user_id", func(m *Member) *int64 { return &m.UserID }).Key(),
			entity.Col("display_name", func(m *Member) *string { return &m.DisplayName }),
			entity.NullCol("email", func(m *Member) **string { return &m.Email }),
			entity.Col("password", func(m *Member) *string { return &m.Password }),
			entity.NullCol("avatar", func(m *Member) **string { return &m.Avatar }),
			entity.Col("member_number", func(m *Member) *int { return &m.MemberNumber }),
			entity.Col("plot_number", func(m *Member) *int { return &m.PlotNumber }),
			entity.Col("dni", func(m *Member) *string { return &m.DNI }),
			entity.Col("phone", func(m *Member) *string { return &m.Phone }),
			entity.Col("type", func(m *Member) *MemberType { return &m.Type }).As(entity.KindInt),
			entity.Col("status", func(m *Member) *MemberStatus { return &m.Status }).As(entity.KindInt),
			entity.Col("role", func(m *Member) *MemberRole { return &m.Role }).As(entity.KindInt),
			entity.NullCol("notes", func(m *Member) **string { return &m.Notes }),
			entity.NullCol("created_at", func(m *Member) **time.Time { return &m.CreatedAt }),
			entity.NullCol("assigned_at", func(m *Member) **time.Time { return &m.AssignedAt }),
			entity.NullCol("deactivated_at", func(m *Member) **time.Time { return &m.DeactivatedAt }),
		},
	}
}

// Split separates a member into the rows it is stored as.
func (m *Member) Split() (*User, *UserMetadata) {
	user := &User{
		ID:          m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Password:    m.Password,
		Avatar:      m.Avatar,
	}
	meta := &UserMetadata{
		UserID:        m.UserID,
		MemberNumber:  m.MemberNumber,
		PlotNumber:    m.PlotNumber,
		DNI:           m.DNI,
		Phone:         m.Phone,
		Type:          m.Type,
		Status:        m.Status,
		Role:          m.Role,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		AssignedAt:    m.AssignedAt,
		DeactivatedAt: m.DeactivatedAt,
	}
	return user, meta
}

// JoinMember rebuilds the projection from its stored rows.
func JoinMember(u *User, meta *UserMetadata) *Member {
	return &Member{
		UserID:        u.ID,
		DisplayName:   u.DisplayName,
		Email:         u.Email,
		Password:      u.Password,
		Avatar:        u.Avatar,
		MemberNumber:  meta.MemberNumber,
		PlotNumber:    meta.PlotNumber,
		DNI:           meta.DNI,
		Phone:         meta.Phone,
		Type:          meta.Type,
		Status:        meta.Status,
		Role:          meta.Role,
		Notes:         meta.Notes,
		CreatedAt:     meta.CreatedAt,
		AssignedAt:    meta.AssignedAt,
		DeactivatedAt: meta.DeactivatedAt,
	}
}

type Announce struct {
	ID          int64      `json:"announce_id"`
	Body        string     `json:"body"`
	Priority    int        `json:"priority"`
	PublishedBy *int64     `json:"published_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func (Announce) Schema() entity.Schema[Announce] {
	return entity.Schema[Announce]{
		Table: "huertos_announces",
		Columns: []entity.Column[Announce]{
			entity.Col("announce_id", func(a *Announce) *int64 { return &a.ID }).Generated(),
			entity.Col("body", func(a *Announce) *string { return &a.Body }),
			entity.Col("priority", func(a *Announce) *int { return &a.Priority }),
			entity.NullCol("published_by", func(a *Announce) **int64 { return &a.PublishedBy }),
			entity.NullCol("created_at", func(a *Announce) **time.Time { return &a.CreatedAt }),
		},
	}
}

type IncomeFrequency int

const (
	IncomeOnce IncomeFrequency = iota
	IncomeBiyearly
	IncomeYearly
)

// Income is a payment received from a member.
type Income struct {
	ID           int64           `json:"income_id"`
	MemberNumber int             `json:"member_number"`
	Concept      string          `json:"concept"`
	Amount       decimal.Decimal `json:"amount"`
	Type         int             `json:"type"`
	Frequency    IncomeFrequency `json:"frequency"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
}

func (Income) Schema() entity.Schema[Income] {
	return entity.Schema[Income]{
		Table: "huertos_incomes",
		Columns: []entity.Column[Income]{
			entity.Col("income_id", func(i *Income) *int64 { return &i.ID }).Generated(),
			entity.Col("member_number", func(i *Income) *int { return &i.MemberNumber }),
			entity.Col("concept", func(i *Income) *string { return &i.Concept }),
			entity.Col("amount", func(i *Income) *decimal.Decimal { return &i.Amount }),
			entity.Col("type", func(i *Income) *int { return &i.Type }),
			entity.Col("frequency", func(i *Income) *IncomeFrequency { return &i.Frequency }).As(entity.KindInt),
			entity.NullCol("created_at", func(i *Income) **time.Time { return &i.CreatedAt }),
		},
	}
}
