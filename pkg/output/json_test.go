// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJsonFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := &JsonFormatter{}

	err := formatter.Format(struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}{Name: "prune", Count: 2}, &buf, nil)

	require.NoError(t, err)
	require.JSONEq(t, `{"name": "prune", "count": 2}`, buf.String())
	// one complete document per call, newline terminated
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n")))
}
