package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Category groups provider failures for reporting. The pipeline treats every
// category the same way.
type Category string

const (
	CategoryAuth      Category = "auth"
	CategoryQuota     Category = "quota"
	CategoryRateLimit Category = "rate_limit"
	CategoryTimeout   Category = "timeout"
	CategoryMalformed Category = "malformed_response"
	CategoryUnknown   Category = "unknown"
)

// Classify maps an error from either provider to a Category. It returns "" for nil.
func Classify(err error) Category {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyResponse) {
		return CategoryMalformed
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyHTTP(apiErr.HTTPStatusCode, fmt.Sprint(apiErr.Code)+" "+apiErr.Type)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyHTTP(reqErr.HTTPStatusCode, "")
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return CategoryAuth
		case codes.ResourceExhausted:
			if strings.Contains(strings.ToLower(st.Message()), "quota") {
				return CategoryQuota
			}
			return CategoryRateLimit
		case codes.DeadlineExceeded:
			return CategoryTimeout
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}
	return CategoryUnknown
}

func classifyHTTP(statusCode int, code string) Category {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CategoryAuth
	case http.StatusPaymentRequired:
		return CategoryQuota
	case http.StatusTooManyRequests:
		if strings.Contains(code, "insufficient_quota") {
			return CategoryQuota
		}
		return CategoryRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return CategoryTimeout
	}
	return CategoryUnknown
}
