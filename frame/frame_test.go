// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationWidth(t *testing.T) {
	n := &Notification{LeftChannel: 2, RightChannel: 5}
	assert.Equal(t, 4, n.Width())

	single := &Notification{LeftChannel: 3, RightChannel: 3}
	assert.Equal(t, 1, single.Width())
}

func TestNotificationOverlaps(t *testing.T) {
	n := &Notification{LeftChannel: 2, RightChannel: 5}

	assert.True(t, n.Overlaps(4, 4))
	assert.True(t, n.Overlaps(5, 8))
	assert.True(t, n.Overlaps(0, 2))
	assert.False(t, n.Overlaps(6, 9))
	assert.False(t, n.Overlaps(0, 1))
}

func TestLogicalNackDefaultsToInvalidInterferer(t *testing.T) {
	nack := LogicalNack{SourceId: 1, NodeA: 2}
	assert.Equal(t, 0, nack.NodeB)
}
