package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by command errors so callers can distinguish
// validation rejections from execution and context failures.
const (
	codeCommandInvalid  = "STATIC_COMMAND_INVALID"
	codeCommandFailed   = "STATIC_COMMAND_FAILED"
	codeCommandCanceled = "STATIC_COMMAND_CANCELED"
	codeCommandTimedOut = "STATIC_COMMAND_TIMED_OUT"
	codeCommandContext  = "STATIC_COMMAND_CONTEXT"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "message rejected by validation").
		WithTextCode(codeCommandInvalid)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	msg, code := "command context failed", codeCommandContext
	switch {
	case errors.Is(err, context.Canceled):
		msg, code = "command canceled before completion", codeCommandCanceled
	case errors.Is(err, context.DeadlineExceeded):
		msg, code = "command exceeded its deadline", codeCommandTimedOut
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, msg).WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command returned an error").
		WithTextCode(codeCommandFailed)
}
