package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/miarma/api/internal/database"
	"github.com/miarma/api/internal/errs"
	"github.com/miarma/api/internal/filter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var uniqueKeyRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// generateErrorCode builds a machine code such as USER_ALREADY_EXISTS from
// the table and the violation.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)
	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)
	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"
	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers the base of an "_id" column, then the singular
// table name, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		// Domain tables are prefixed with their microservice.
		for _, prefix := range []string{"huertos_", "cine_", "miarmacraft_"} {
			entity = strings.TrimPrefix(entity, prefix)
		}
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation reads the column out of constraint names
// such as unique_users_email or users_email_key.
func extractColumnForUniqueViolation(sqlErr *Error) string {
	if sqlErr.ColumnName != "" {
		return sqlErr.ColumnName
	}
	name := sqlErr.ConstraintName
	if name == "" {
		return ""
	}

	if strings.HasPrefix(name, "unique_") {
		parts := strings.Split(name, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeyRe.FindStringSubmatch(name); len(matches) > 1 {
		return matches[1]
	}

	// MySQL names a single-column unique key after the column itself.
	if sqlErr.DatabaseCode == "1062" {
		return name
	}
	return ""
}

// HandleError converts a data-access error into an *errs.HTTPError.
//
//   - *errs.HTTPError: returned unchanged
//   - invalid filter: 400 naming the offending parameter
//   - pool timeout: 503
//   - constraint violations: 400 with a code such as MOD_ALREADY_EXISTS
//   - everything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var fe *filter.InvalidFilterError
	if errors.As(err, &fe) {
		code := "INVALID_FILTER"
		return errs.NewBadRequestError(
			fmt.Sprintf("Invalid query parameter %q", fe.Key),
			true,
			&code,
			[]errs.FieldError{{Field: fe.Key, Error: fe.Reason}},
			nil,
		)
	}

	if errors.Is(err, database.ErrPoolTimeout) {
		return errs.NewServiceUnavailableError("The service is busy, try again shortly")
	}

	sqlErr, ok := Classify(err)
	if !ok {
		return errs.NewInternalServerError()
	}

	errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
	userMessage := formatUserFriendlyMessage(sqlErr)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

	case UniqueViolation:
		if columnName := extractColumnForUniqueViolation(sqlErr); columnName != "" {
			userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
		}
		return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

	case NotNullViolation:
		fieldErrors := []errs.FieldError{
			{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			},
		}
		return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

	case CheckViolation:
		return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

	default:
		return errs.NewInternalServerError()
	}
}
