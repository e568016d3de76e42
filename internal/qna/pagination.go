// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package qna

import (
	"strconv"

	"github.com/samber/oops"
)

// Pagination bounds a question listing. Limit is optional; a nil Limit
// means "no limit". Offset defaults to zero.
type Pagination struct {
	Limit  *int32
	Offset int32
}

// ParsePagination extracts pagination from raw query values. Both
// parameters must be present when either is: a lone limit or offset is a
// missing-parameter error, matching the query contract
// `/questions?limit=1&offset=10`.
func ParsePagination(limit, offset string) (Pagination, error) {
	if limit == "" && offset == "" {
		return Pagination{}, nil
	}
	if limit == "" || offset == "" {
		return Pagination{}, oops.Code("PAGINATION_MISSING_PARAMETER").
			Errorf("both limit and offset are required")
	}

	l, err := strconv.ParseInt(limit, 10, 32)
	if err != nil {
		return Pagination{}, oops.Code("PAGINATION_PARSE_FAILED").
			With("parameter", "limit").
			Wrap(err)
	}
	o, err := strconv.ParseInt(offset, 10, 32)
	if err != nil {
		return Pagination{}, oops.Code("PAGINATION_PARSE_FAILED").
			With("parameter", "offset").
			Wrap(err)
	}
	if l < 0 || o < 0 {
		return Pagination{}, oops.Code("PAGINATION_PARSE_FAILED").
			Errorf("limit and offset must be non-negative")
	}

	l32 := int32(l)
	return Pagination{Limit: &l32, Offset: int32(o)}, nil
}
