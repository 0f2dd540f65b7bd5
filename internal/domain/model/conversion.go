package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("supported_currency", func(fl validator.FieldLevel) bool {
		return Currency(fl.Field().String()).IsSupported()
	}); err != nil {
		panic(err)
	}
	return v
}

type ConversionRequest struct {
	Amount         float64  `json:"amount" validate:"gt=0"`
	TargetCurrency Currency `json:"target_currency" validate:"required,supported_currency"`
}

// NewConversionRequest builds a request from raw user input and validates it.
func NewConversionRequest(amountText, targetText string) (ConversionRequest, error) {
	amountText = strings.TrimSpace(amountText)
	if amountText == "" {
		return ConversionRequest{}, fmt.Errorf("%w: please enter the amount", ErrValidation)
	}

	amount, err := strconv.ParseFloat(amountText, 64)
	if err != nil {
		return ConversionRequest{}, fmt.Errorf("%w: invalid amount format", ErrValidation)
	}

	req := ConversionRequest{
		Amount:         amount,
		TargetCurrency: Currency(strings.ToUpper(strings.TrimSpace(targetText))),
	}
	if err := req.Validate(); err != nil {
		return ConversionRequest{}, err
	}
	return req, nil
}

// Validate requires a finite positive amount and a supported target currency.
func (r ConversionRequest) Validate() error {
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", ErrValidation)
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	for _, fe := range fieldErrs {
		if fe.StructField() != "TargetCurrency" {
			continue
		}
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: please select a target currency", ErrValidation)
		}
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, string(r.TargetCurrency))
	}
	return fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
}

type ConversionResult struct {
	SourceCurrency  Currency `json:"source_currency"`
	TargetCurrency  Currency `json:"target_currency"`
	IP              string   `json:"ip"`
	CountryCode     string   `json:"country_code"`
	OriginalAmount  float64  `json:"original_amount"`
	ConvertedAmount float64  `json:"converted_amount"`
}

type ConversionFailure struct {
	Message  string        `json:"message"`
	Category ErrorCategory `json:"category"`
}

// ConversionOutcome is the single value handed back for a dispatched conversion.
// Exactly one of Result and Failure is set.
type ConversionOutcome struct {
	RequestID string             `json:"request_id"`
	State     ConversionState    `json:"state"`
	Result    *ConversionResult  `json:"result,omitempty"`
	Failure   *ConversionFailure `json:"failure,omitempty"`
}

func NewSuccessOutcome(requestID string, result ConversionResult) ConversionOutcome {
	return ConversionOutcome{
		RequestID: requestID,
		State:     StateDone,
		Result:    &result,
	}
}

func NewFailedOutcome(requestID string, err error) ConversionOutcome {
	return ConversionOutcome{
		RequestID: requestID,
		State:     StateFailed,
		Failure: &ConversionFailure{
			Message:  Message(err),
			Category: CategoryOf(err),
		},
	}
}

func (o ConversionOutcome) Succeeded() bool {
	return o.State == StateDone && o.Result != nil
}
