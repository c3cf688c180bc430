// Package validate builds statebus topic validators on top of
// go-playground/validator, so topic payloads can be validated with the same
// struct tags used elsewhere in a service.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/nfrund/statebus"
)

// Struct returns a validator that accepts payloads of type T (or *T) and
// runs them through go-playground struct validation. Payloads of any other
// type are rejected.
func Struct[T any]() statebus.Validator {
	v := validator.New()

	return func(payload any) statebus.Result {
		value, ok := payload.(T)
		if !ok {
			ptr, isPtr := payload.(*T)
			if !isPtr {
				return statebus.Result{
					Valid:    false,
					Messages: []string{fmt.Sprintf("payload is %T, want %T", payload, value)},
				}
			}
			if ptr == nil {
				return statebus.Result{Valid: false, Messages: []string{"payload is nil"}}
			}
			value = *ptr
		}

		err := v.Struct(value)
		if err == nil {
			return statebus.Result{Valid: true}
		}

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			messages := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				messages = append(messages, fmt.Sprintf("%s failed on the '%s' tag", fe.Namespace(), fe.Tag()))
			}
			return statebus.Result{Valid: false, Messages: messages}
		}
		return statebus.Result{Valid: false, Messages: []string{err.Error()}}
	}
}

// Func adapts an error-returning predicate to the statebus validator
// contract. A nil error means the payload is valid.
func Func(fn func(payload any) error) statebus.Validator {
	return func(payload any) statebus.Result {
		if err := fn(payload); err != nil {
			return statebus.Result{Valid: false, Messages: []string{err.Error()}}
		}
		return statebus.Result{Valid: true}
	}
}
