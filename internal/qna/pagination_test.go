// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package qna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askboard/askboard/pkg/errutil"
)

func TestParsePagination(t *testing.T) {
	t.Run("both empty yields unbounded listing", func(t *testing.T) {
		p, err := ParsePagination("", "")
		require.NoError(t, err)
		assert.Nil(t, p.Limit)
		assert.Equal(t, int32(0), p.Offset)
	})

	t.Run("both present", func(t *testing.T) {
		p, err := ParsePagination("1", "10")
		require.NoError(t, err)
		require.NotNil(t, p.Limit)
		assert.Equal(t, int32(1), *p.Limit)
		assert.Equal(t, int32(10), p.Offset)
	})

	t.Run("lone limit is a missing parameter", func(t *testing.T) {
		_, err := ParsePagination("5", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PAGINATION_MISSING_PARAMETER")
	})

	t.Run("lone offset is a missing parameter", func(t *testing.T) {
		_, err := ParsePagination("", "5")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PAGINATION_MISSING_PARAMETER")
	})

	t.Run("non-numeric limit fails", func(t *testing.T) {
		_, err := ParsePagination("NOT_A_NUMBER", "10")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PAGINATION_PARSE_FAILED")
	})

	t.Run("non-numeric offset fails", func(t *testing.T) {
		_, err := ParsePagination("1", "NOT_A_NUMBER")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PAGINATION_PARSE_FAILED")
	})

	t.Run("negative values fail", func(t *testing.T) {
		_, err := ParsePagination("-1", "10")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PAGINATION_PARSE_FAILED")

		_, err = ParsePagination("1", "-10")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PAGINATION_PARSE_FAILED")
	})

	t.Run("overflowing limit fails", func(t *testing.T) {
		_, err := ParsePagination("4294967296", "0")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PAGINATION_PARSE_FAILED")
	})
}
