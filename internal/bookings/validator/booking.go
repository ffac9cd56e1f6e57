package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zermoser/mos-e-form/pkg/config"
	"github.com/zermoser/mos-e-form/pkg/model"
	"github.com/zermoser/mos-e-form/pkg/timeslot"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// BookingValidator checks structural validity of a booking request: field
// formats, the configured room directory, and the bookable day bounds.
// Interval ordering and conflicts belong to the service's precondition
// chain, not here.
type BookingValidator struct {
	validate *validator.Validate
	cfg      *config.Config
	dayStart timeslot.TimeOfDay
	dayEnd   timeslot.TimeOfDay
}

func NewBookingValidator(cfg *config.Config) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("slot_time", validateSlotTime); err != nil {
		cfg.Log.Fatal("Failed to register 'slot_time' validator", "error", err)
	}
	if err := v.RegisterValidation("room", validateRoom(cfg.Rooms)); err != nil {
		cfg.Log.Fatal("Failed to register 'room' validator", "error", err)
	}

	// Config.Validate already proved these parse.
	dayStart, _ := timeslot.Parse(cfg.DayStart)
	dayEnd, _ := timeslot.Parse(cfg.DayEnd)

	return &BookingValidator{
		validate: v,
		cfg:      cfg,
		dayStart: dayStart,
		dayEnd:   dayEnd,
	}
}

func validateSlotTime(fl validator.FieldLevel) bool {
	_, err := timeslot.Parse(fl.Field().String())
	return err == nil
}

func validateRoom(rooms []string) validator.Func {
	directory := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		directory[room] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, known := directory[fl.Field().String()]
		return known
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	interval, err := timeslot.NewInterval(booking.StartTime, booking.EndTime)
	if err != nil {
		// Unreachable after the slot_time tag, kept as a guard.
		return ValidationErrors{{Field: "StartTime", Message: err.Error()}}
	}

	if interval.Start < v.dayStart || interval.End > v.dayEnd {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: fmt.Sprintf("booking must fall within %s-%s", v.cfg.DayStart, v.cfg.DayEnd),
			},
		}
	}

	return nil
}

// ValidateRoom checks a bare room name against the directory, for the
// availability probe which has no full struct to validate.
func (v *BookingValidator) ValidateRoom(room string) error {
	if err := v.validate.Var(room, "room"); err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "Room",
				Message: fmt.Sprintf("unknown room %q", room),
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a YYYY-MM-DD date", err.Field())
		case "slot_time":
			message = fmt.Sprintf("%s must be in HH:MM format", err.Field())
		case "room":
			message = fmt.Sprintf("%s must be a known room", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
