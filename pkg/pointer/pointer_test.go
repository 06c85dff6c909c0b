// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/critiq/pkg/pointer"
)

func TestPointer(t *testing.T) {
	assert.Equal(t, 7, *pointer.To(7))

	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, "x", pointer.Val(pointer.To("x")))

	assert.Equal(t, 1999, pointer.Fallback[int](nil, 1999))
	assert.Equal(t, 2001, pointer.Fallback(pointer.To(2001), 1999))
}
