// Package i18n holds the English and Hindi strings the API returns. The
// language is chosen per request; nothing here is mutable after init.
package i18n

import (
	"golang.org/x/text/language"
)

// Lang is a supported response language.
type Lang string

const (
	English Lang = "en"
	Hindi   Lang = "hi"
)

// Message keys.
const (
	MsgInvalidInput      = "invalid_input"
	MsgIssueNotFound     = "issue_not_found"
	MsgUnauthorized      = "unauthorized"
	MsgForbiddenFields   = "forbidden_fields"
	MsgStorageFailure    = "storage_failure"
	MsgRateLimited       = "rate_limited"
	MsgInvalidCredential = "invalid_credentials"
	MsgOfficerNotFound   = "officer_not_found"
	MsgLoggedOut         = "logged_out"
	MsgInternal          = "internal_error"
	MsgTooLarge          = "request_too_large"
)

var supported = []language.Tag{language.English, language.Hindi}

var matcher = language.NewMatcher(supported)

var messages = map[Lang]map[string]string{
	English: {
		MsgInvalidInput:      "Invalid input",
		MsgIssueNotFound:     "Issue not found",
		MsgUnauthorized:      "Government credential required",
		MsgForbiddenFields:   "Only administrators may change these fields",
		MsgStorageFailure:    "Something went wrong",
		MsgRateLimited:       "Rate limit exceeded",
		MsgInvalidCredential: "Invalid credentials",
		MsgOfficerNotFound:   "Officer not found",
		MsgLoggedOut:         "Logged out successfully",
		MsgInternal:          "Internal server error",
		MsgTooLarge:          "Request body too large",
	},
	Hindi: {
		MsgInvalidInput:      "अमान्य इनपुट",
		MsgIssueNotFound:     "समस्या नहीं मिली",
		MsgUnauthorized:      "सरकारी प्रमाण-पत्र आवश्यक है",
		MsgForbiddenFields:   "केवल प्रशासक ही इन फ़ील्ड को बदल सकते हैं",
		MsgStorageFailure:    "कुछ गलत हो गया",
		MsgRateLimited:       "अनुरोध सीमा पार हो गई",
		MsgInvalidCredential: "अमान्य क्रेडेंशियल",
		MsgOfficerNotFound:   "अधिकारी नहीं मिला",
		MsgLoggedOut:         "सफलतापूर्वक लॉग आउट किया गया",
		MsgInternal:          "आंतरिक सर्वर त्रुटि",
		MsgTooLarge:          "अनुरोध का आकार बहुत बड़ा है",
	},
}

// Labels are the display names of the issue enums and categories.
type Labels struct {
	Lang       Lang              `json:"lang"`
	Statuses   map[string]string `json:"statuses"`
	Priorities map[string]string `json:"priorities"`
	Categories map[string]string `json:"categories"`
}

var labels = map[Lang]Labels{
	English: {
		Lang: English,
		Statuses: map[string]string{
			"Pending":     "Pending",
			"In Progress": "In Progress",
			"Resolved":    "Resolved",
		},
		Priorities: map[string]string{
			"Low":    "Low Priority",
			"Medium": "Medium Priority",
			"High":   "High Priority",
		},
		Categories: map[string]string{
			"infrastructure": "Infrastructure",
			"utilities":      "Utilities",
			"water":          "Water & Sanitation",
			"traffic":        "Traffic",
			"environment":    "Environment",
		},
	},
	Hindi: {
		Lang: Hindi,
		Statuses: map[string]string{
			"Pending":     "लंबित",
			"In Progress": "प्रगति में",
			"Resolved":    "हल किया गया",
		},
		Priorities: map[string]string{
			"Low":    "कम प्राथमिकता",
			"Medium": "मध्यम प्राथमिकता",
			"High":   "उच्च प्राथमिकता",
		},
		Categories: map[string]string{
			"infrastructure": "बुनियादी ढांचा",
			"utilities":      "उपयोगिताएं",
			"water":          "जल और स्वच्छता",
			"traffic":        "यातायात",
			"environment":    "पर्यावरण",
		},
	},
}

// Match picks the best supported language for an explicit choice (for
// example a ?lang= value) or, failing that, an Accept-Language header.
func Match(explicit, acceptLanguage string) Lang {
	var prefs []language.Tag
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			prefs = append(prefs, tag)
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
		prefs = append(prefs, tags...)
	}
	if len(prefs) == 0 {
		return English
	}

	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return English
	}
	if supported[idx] == language.Hindi {
		return Hindi
	}
	return English
}

// T returns the message for key in lang, falling back to English and then
// to the key itself.
func T(lang Lang, key string) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[English][key]; ok {
		return msg
	}
	return key
}

// LabelsFor returns the label tables for lang.
func LabelsFor(lang Lang) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[English]
}
