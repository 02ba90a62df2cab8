// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package exec

import (
	"regexp"
	"strings"
)

type redactData struct {
	matchString   *regexp.Regexp
	replaceString string
}

const cRedacted = "<redacted>"

var regexpRedactRules map[string]redactData

func init() {
	regexpRedactRules = map[string]redactData{
		"access token": {
			regexp.MustCompile(`"accessToken":(\s*)".*"`),
			`"accessToken":$1"` + cRedacted + `"`,
		},
		"storage account key": {
			regexp.MustCompile(`AccountKey=[^;"\s]+`),
			"AccountKey=" + cRedacted,
		},
		"settings value": {
			// `func azure functionapp fetch-app-settings` echoes each setting
			// value after its name; only the names are useful in logs.
			regexp.MustCompile(`"value":(\s*)".*"`),
			`"value":$1"` + cRedacted + `"`,
		},
		"password": {
			regexp.MustCompile(`--password \S+`),
			"--password " + cRedacted,
		},
	}
}

// RedactSensitiveArgs replaces any occurrence of the given literal sensitive
// values within args.
func RedactSensitiveArgs(args []string, sensitiveDataMatch []string) []string {
	if len(sensitiveDataMatch) == 0 {
		return args
	}
	redactedArgs := make([]string, len(args))
	for i, arg := range args {
		redacted := arg
		for _, sensitiveData := range sensitiveDataMatch {
			redacted = strings.ReplaceAll(redacted, sensitiveData, cRedacted)
		}
		redactedArgs[i] = redacted
	}
	return redactedArgs
}

// RedactSensitiveData applies the pattern-based redaction rules to msg.
func RedactSensitiveData(msg string) string {
	for _, redactRule := range regexpRedactRules {
		regMatchString := redactRule.matchString
		msg = regMatchString.ReplaceAllString(msg, redactRule.replaceString)
	}
	return msg
}
