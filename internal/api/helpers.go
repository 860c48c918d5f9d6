package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire version of the response envelope. Bump only
// with a coordinated client release.
const envelopeVersion = 1

// EnvelopeTransformer wraps every response body in the versioned envelope
// clients expect:
//
//	success: {"v": 1, "success": true, "data": ...}
//	error:   {"v": 1, "success": false, "error": "..."} or
//	         {"v": 1, "success": false, "code": ..., "message": ..., "details": ...}
//
// Registered on the huma config so handlers only ever return bare payloads.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" && apiErr.Details == nil {
			return map[string]any{
				"v":       envelopeVersion,
				"success": false,
				"error":   apiErr.Message,
			}, nil
		}

		out := map[string]any{
			"v":       envelopeVersion,
			"success": false,
			"code":    apiErr.Code,
			"message": apiErr.Message,
		}
		if apiErr.Details != nil {
			out["details"] = apiErr.Details
		}
		return out, nil
	}

	if v == nil {
		return map[string]any{
			"v":       envelopeVersion,
			"success": true,
		}, nil
	}

	return map[string]any{
		"v":       envelopeVersion,
		"success": true,
		"data":    v,
	}, nil
}

// authenticateRequest validates the Authorization header and returns the
// authenticated user ID.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}

// extractIP picks the client IP out of forwarding headers, preferring the
// first hop in X-Forwarded-For.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		if i := strings.IndexByte(xForwardedFor, ','); i >= 0 {
			return xForwardedFor[:i]
		}
		return xForwardedFor
	}
	return xRealIP
}
