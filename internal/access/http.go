// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"net/http"

	"github.com/taibuivan/critiq/internal/platform/respond"
)

// Guard applies a class-level policy to every request reaching next.
//
// The action is derived from the HTTP method and the target is nil; per-object
// rules are enforced later by the service once the record is loaded.
//
// # Usage
//
// Must be registered AFTER [middleware.Authenticate].
//
//	router.With(access.Guard(access.AdminOrReadOnly)).Post("/", handler.create)
func Guard(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			subject := SubjectFrom(request.Context())
			action := ActionFromMethod(request.Method)

			if err := Check(policy, subject, action, nil); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
