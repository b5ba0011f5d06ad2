// ABOUTME: Request classification for the request log.
// ABOUTME: Extracts the SObject name and first error code from REST traffic.

package logging

import (
	"encoding/json"
	"strings"
)

// SObjectFromPath returns the SObject segment of a REST data path such as
// /services/data/v59.0/sobjects/Account/001..., or "" for other paths.
func SObjectFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "sobjects" {
			return parts[i+1]
		}
	}
	return ""
}

// firstErrorCode pulls the first errorCode out of an error array body, or the
// error field of an OAuth error body.
func firstErrorCode(body []byte) string {
	var arr []struct {
		ErrorCode string `json:"errorCode"`
	}
	if json.Unmarshal(body, &arr) == nil && len(arr) > 0 {
		return arr[0].ErrorCode
	}
	var oauth struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &oauth) == nil {
		return oauth.Error
	}
	return ""
}
