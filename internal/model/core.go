package model

import (
	"time"

	"github.com/miarma/api/internal/entity"
)

type GlobalStatus int

const (
	GlobalStatusInactive GlobalStatus = iota
	GlobalStatusActive
)

type GlobalRole int

const (
	GlobalRoleUser GlobalRole = iota
	GlobalRoleAdmin
)

// User is an identity shared by every microservice.
type User struct {
	ID           int64        `json:"user_id"`
	UserName     string       `json:"user_name"`
	Email        *string      `json:"email,omitempty"`
	DisplayName  string       `json:"display_name"`
	Password     string       `json:"-"`
	Avatar       *string      `json:"avatar,omitempty"`
	GlobalStatus GlobalStatus `json:"global_status"`
	GlobalRole   GlobalRole   `json:"global_role"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
}

func (User) Schema() entity.Schema[User] {
	return entity.Schema[User]{
		Table: "users",
		Columns: []entity.Column[User]{
			entity.Col("user_id", func(u *User) *int64 { return &u.ID }).Generated(),
			entity.Col("user_name", func(u *User) *string { return &u.UserName }),
			entity.NullCol("email", func(u *User) **string { return &u.Email }),
			entity.Col("display_name", func(u *User) *string { return &u.DisplayName }),
			entity.Col("password", func(u *User) *string { return &u.Password }),
			entity.NullCol("avatar", func(u *User) **string { return &u.Avatar }),
			entity.Col("global_status", func(u *User) *GlobalStatus { return &u.GlobalStatus }).As(entity.KindInt),
			entity.Col("global_role", func(u *User) *GlobalRole { return &u.GlobalRole }).As(entity.KindInt),
			entity.NullCol("created_at", func(u *User) **time.Time { return &u.CreatedAt }),
			entity.NullCol("updated_at", func(u *User) **time.Time { return &u.UpdatedAt }),
		},
	}
}
