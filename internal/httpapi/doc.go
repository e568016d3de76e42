// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

// Package httpapi exposes the question-and-answer service over HTTP.
//
// Routes:
//
//	POST   /registration            create an account
//	POST   /login                   exchange credentials for a session token
//	GET    /questions               list questions (public)
//	POST   /questions               create a question (authenticated)
//	PUT    /questions/:question_id  update an owned question (authenticated)
//	DELETE /questions/:question_id  delete an owned question (authenticated)
//	POST   /answers                 answer a question (authenticated)
//
// Authenticated routes read the session token from the Authorization
// header. Any authentication failure yields a uniform 401; the failure
// subtype is only visible in debug logs.
package httpapi
