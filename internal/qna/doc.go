// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

// Package qna holds the question/answer domain: the types, the
// repositories, and the submission pipeline that guards every write.
//
// The pipeline enforces a strict per-request order: authentication (done
// by the HTTP layer) precedes the ownership check, which precedes
// moderation, which precedes persistence. A failed stage never leaves a
// partial mutation behind, and a failed ownership check never reveals
// whether the resource exists.
package qna
