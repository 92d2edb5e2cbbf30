package domain

import "errors"

var (
	MessageSuccessGetLink = "success get short link"
	MessageFailedGetLink  = "failed to get short link"

	ErrShortLinkNotFound = errors.New("short link not found")
	ErrTokenGeneration   = errors.New("failed to generate unique short token")
)

type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}
