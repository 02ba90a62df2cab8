// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"encoding/json"
	"io"
)

// JsonFormatter writes the object as one indented JSON document followed by a
// newline, so piped consumers like jq receive a complete document per call.
type JsonFormatter struct {
}

func (f *JsonFormatter) Kind() Format {
	return JsonFormat
}

func (f *JsonFormatter) Format(obj interface{}, writer io.Writer, _ interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(obj)
}

var _ Formatter = (*JsonFormatter)(nil)
