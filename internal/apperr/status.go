package apperr

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Localizer renders a message id with template data in the requested language.
type Localizer interface {
	Localize(lang, messageID string, data map[string]any) (string, bool)
}

func (e *Error) GRPCCode() codes.Code {
	switch e.Kind {
	case KindValidation:
		return codes.InvalidArgument
	case KindConflict:
		return codes.FailedPrecondition
	case KindResource:
		return codes.ResourceExhausted
	case KindNotFound:
		return codes.NotFound
	case KindForbidden:
		return codes.PermissionDenied
	}
	return codes.Unknown
}

// ToStatus converts err into a gRPC status. Typed errors keep their code and
// get a localized message; anything else is reported as Internal.
func ToStatus(err error, l Localizer, lang string) error {
	if err == nil {
		return nil
	}
	e, ok := As(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}

	msg := e.Message
	if l != nil {
		if localized, ok := l.Localize(lang, e.Code, e.Fields); ok {
			msg = localized
		}
	}
	return status.Error(e.GRPCCode(), msg)
}
