package actions

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Envelope is the body of POST /api/data.
type Envelope struct {
	Action  string          `json:"action" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Decode turns an envelope into its typed action, validating the payload.
func Decode(env Envelope) (Action, error) {
	switch Name(env.Action) {
	case NameGetDashboardData:
		return GetDashboardData{}, nil
	case NameClearVisualizationData:
		return ClearVisualizationData{}, nil
	case NameUpdateSettings:
		return decodeInto[UpdateSettings](env.Payload)
	case NameCreateUser:
		return decodeInto[CreateUser](env.Payload)
	case NameUpdateUser:
		return decodeInto[UpdateUser](env.Payload)
	case NameDeleteUser:
		return decodeInto[DeleteUser](env.Payload)
	case NameCreateMedia:
		return decodeInto[CreateMedia](env.Payload)
	case NameUpdateMedia:
		return decodeInto[UpdateMedia](env.Payload)
	case NameDeleteMedia:
		return decodeInto[DeleteMedia](env.Payload)
	case NameBulkDeleteMedia:
		return decodeInto[BulkDeleteMedia](env.Payload)
	case NameCreatePlaylist:
		return decodeInto[CreatePlaylist](env.Payload)
	case NameUpdatePlaylist:
		return decodeInto[UpdatePlaylist](env.Payload)
	case NameDeletePlaylist:
		return decodeInto[DeletePlaylist](env.Payload)
	case NameCreateDevice:
		return decodeInto[CreateDevice](env.Payload)
	case NameUpdateDevice:
		return decodeInto[UpdateDevice](env.Payload)
	case NameDeleteDevice:
		return decodeInto[DeleteDevice](env.Payload)
	}
	return nil, badRequest("invalid action %q", env.Action)
}

func decodeInto[T Action](payload json.RawMessage) (Action, error) {
	var a T
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, badRequest("%s: payload is required", a.ActionName())
	}
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return nil, badRequest("%s: invalid payload: %v", a.ActionName(), err)
	}
	if err := payloadValidator().Struct(a); err != nil {
		return nil, badRequest("%s: %s", a.ActionName(), describe(err))
	}
	return a, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Namespace()+" is required")
		default:
			parts = append(parts, fe.Namespace()+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, "; ")
}
