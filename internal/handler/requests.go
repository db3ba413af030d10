package handler

import (
	"github.com/google/uuid"
	"github.com/miarma/api/internal/service"
	"github.com/miarma/api/internal/validation"
)

// ListRequest carries nothing bindable. List endpoints read the raw query
// string, which the repository validates against the entity's columns.
type ListRequest struct{}

func (*ListRequest) Validate() error { return nil }

type IDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

func (r *IDRequest) Validate() error {
	return validation.Validate.Struct(r)
}

type MemberNumberRequest struct {
	Number int `param:"number" json:"-" validate:"required,min=1"`
}

func (r *MemberNumberRequest) Validate() error {
	return validation.Validate.Struct(r)
}

type MovieIDRequest struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (r *MovieIDRequest) Validate() error {
	return validation.Validate.Struct(r)
}

// UUID is only meaningful after Validate succeeded.
func (r *MovieIDRequest) UUID() uuid.UUID {
	return uuid.MustParse(r.ID)
}

type UpdateModRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
	service.ModInput
}

func (r *UpdateModRequest) Validate() error {
	if err := positiveID(r.ID); err != nil {
		return err
	}
	return r.ModInput.Validate()
}

type UpdateMemberRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
	service.UpdateMemberInput
}

func (r *UpdateMemberRequest) Validate() error {
	if err := positiveID(r.ID); err != nil {
		return err
	}
	return r.UpdateMemberInput.Validate()
}

type UpdateAnnounceRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
	service.AnnounceInput
}

func (r *UpdateAnnounceRequest) Validate() error {
	if err := positiveID(r.ID); err != nil {
		return err
	}
	return r.AnnounceInput.Validate()
}

type VoteRequest struct {
	MovieID string `param:"id" json:"-" validate:"required,uuid"`
	service.VoteInput
}

func (r *VoteRequest) Validate() error {
	if err := uuid.Validate(r.MovieID); err != nil {
		return validation.CustomValidationErrors{{Field: "id", Message: "must be a valid UUID"}}
	}
	return r.VoteInput.Validate()
}

func positiveID(id int64) error {
	if id < 1 {
		return validation.CustomValidationErrors{{Field: "id", Message: "must be a positive integer"}}
	}
	return nil
}
