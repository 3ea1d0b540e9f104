package app

import (
	"context"
	"errors"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
	"github.com/lepinkainen/marquee/internal/omdb"
)

// Messages shown to the user.
const (
	MsgEmptyQuery      = "Please enter a movie title to search for."
	MsgNoResults       = "No movies found with that title. Try searching for something else!"
	MsgConnection      = "Connection error. Please check your internet connection and try again."
	MsgAllUnavailable  = "All sources are currently unavailable. Please try again later."
	MsgDetailsFailed   = "Could not load movie details. Please try again."
	MsgNoFavorites     = "No favorites yet. Mark movies as favorites to see them here."
	MsgRequestCanceled = "Request canceled."
)

// UserMessage turns a search failure into a message for the user. Other API
// rejections show the API's own error text.
func UserMessage(err error) string {
	var gwErr *marqueeerrors.GatewayError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, omdb.ErrEmptyQuery):
		return MsgEmptyQuery
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return MsgRequestCanceled
	case marqueeerrors.IsAllSourcesExhausted(err):
		return MsgAllUnavailable
	case marqueeerrors.IsNotFound(err):
		return MsgNoResults
	case marqueeerrors.IsTransport(err), marqueeerrors.IsHTTPError(err):
		return MsgConnection
	case errors.As(err, &gwErr) && gwErr.Message != "":
		return gwErr.Message
	default:
		return err.Error()
	}
}

// DetailsMessage turns a detail lookup failure into a message for the user.
func DetailsMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return MsgRequestCanceled
	case marqueeerrors.IsAllSourcesExhausted(err):
		return MsgAllUnavailable
	case marqueeerrors.IsTransport(err):
		return MsgConnection
	default:
		return MsgDetailsFailed
	}
}
