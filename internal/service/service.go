// Package service contains the application services of the travel kanban: authentication,
// boards and their members, the ordered lists and cards, public sharing, budgets and
// notifications. Every board-scoped operation is admitted by access.Authorizer first.
package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/notify"
)

var (
	validate = newValidator()
	strict   = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report wire names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkInput validates struct tags of in and reports the first failure as errs.ErrValidation.
func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return errs.Invalid(ve[0].Field(), describe(ve[0]))
	}
	return fmt.Errorf("%w: %v", errs.ErrValidation, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be an email address"
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// plain strips markup from user text and trims it.
func plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// required is plain that rejects text left empty after stripping.
func required(field, s string) (string, error) {
	v := plain(s)
	if v == "" {
		return "", errs.Invalid(field, "must not be empty")
	}
	return v, nil
}

// NormalizeEmail makes emails comparable: full-width spaces become spaces, surrounding
// whitespace is trimmed and the result is lower-cased.
func NormalizeEmail(s string) string {
	s = strings.ReplaceAll(s, "\u3000", " ")
	return strings.ToLower(strings.TrimSpace(s))
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return errs.Invalid("end_date", "must not be before start_date")
	}
	return nil
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("new id: %w", err)
	}
	return id, nil
}

// events emits notifications. Delivery is best-effort: failures are logged and dropped.
type events struct {
	n   notify.Notifier
	log *zap.Logger
}

func newEvents(n notify.Notifier, log *zap.Logger) events {
	if n == nil {
		n = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return events{n: n, log: log}
}

func (e events) send(ctx context.Context, to uuid.UUID, title, message string) {
	err := e.n.Notify(ctx, model.Notification{
		UserID:    to,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		e.log.Warn("notification dropped",
			zap.String("user_id", to.String()), zap.String("title", title), zap.Error(err))
	}
}
