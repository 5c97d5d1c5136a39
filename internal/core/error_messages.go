package core

// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the configured size limit
//	          Action: Remove unused sheets or split the file
//	          Patterns: "file too large"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a file to upload
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Patterns: "empty file"
//
//	FILE006 - Unsupported format: SSD file type is not supported
//	          Action: Upload a .csv, .xlsx or .json file
//	          Patterns: "unsupported ssd file format"
//
// # ALS Errors (ALS001-ALS099)
//
//	ALS001 - No matrix: The ALS has no matrix sheets
//	         Patterns: "no matrix sheets"
//
//	ALS002 - Matrix not found: The requested matrix is not in the ALS
//	         Patterns: "matrix not found"
//
//	ALS003 - Invalid workbook: The ALS could not be read as a workbook
//	         Patterns: "no workbook provided", "invalid workbook"
//
//	ALS004 - Dictionary not found: The ALS has no data dictionary of that name
//	         Patterns: "data dictionary not found"
//
// # SSD Errors (SSD001-SSD099)
//
//	SSD001 - Unrecognized input: SSD text produced no mapping
//	         Patterns: "unrecognized ssd input"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: The session expired or never existed
//	SES002 - No master: Compare or export before an ALS was loaded
//	SES003 - Stale master: The ALS was replaced while comparing
//
// # Store Errors (STO001-STO099)
//
//	STO001 - Selection store: Saved folder selection could not be read or written
//
// # Request Errors (UPL002-UPL005, RATE001, REQ001)
//
//	UPL002 - System busy: "too many concurrent uploads"
//	UPL004 - Request cancelled: "context canceled"
//	UPL005 - Request timeout: "context deadline exceeded"
//	RATE001 - Rate limited: "rate limit"
//	REQ001 - Bad request body: "invalid request body"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Remove unused sheets or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unsupported ssd file format",
		msg: UserMessage{
			Message: "SSD file type is not supported",
			Action:  "Upload a .csv, .xlsx or .json file",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// ALS Errors
	// =========================================================================
	{
		pattern: "no matrix sheets",
		msg: UserMessage{
			Message: "The ALS has no matrix sheets",
			Action:  "Check that the workbook contains a sheet named like \"Matrix#MASTERDASHBOARD\"",
			Code:    "ALS001",
		},
	},
	{
		pattern: "matrix not found",
		msg: UserMessage{
			Message: "The requested matrix is not in the ALS",
			Action:  "Pick one of the listed matrices",
			Code:    "ALS002",
		},
	},
	{
		pattern: "no workbook provided",
		msg: UserMessage{
			Message: "No ALS workbook was provided",
			Action:  "Upload the ALS as an .xlsx file",
			Code:    "ALS003",
		},
	},
	{
		pattern: "invalid workbook",
		msg: UserMessage{
			Message: "The file could not be read as a workbook",
			Action:  "Save the ALS as .xlsx and try again",
			Code:    "ALS003",
		},
	},
	{
		pattern: "data dictionary not found",
		msg: UserMessage{
			Message: "The ALS has no data dictionary of that name",
			Action:  "Check the DataDictionaries sheet of the ALS",
			Code:    "ALS004",
		},
	},

	// =========================================================================
	// SSD Errors
	// =========================================================================
	{
		pattern: "unrecognized ssd input",
		msg: UserMessage{
			Message: "The SSD input produced no folder/form mapping",
			Action:  "Paste CSV with FolderOID and FormOID columns, or a JSON object of folder to forms",
			Code:    "SSD001",
		},
	},

	// =========================================================================
	// Session Errors
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Session not found",
			Action:  "The session may have expired. Please start a new session",
			Code:    "SES001",
		},
	},
	{
		pattern: "no master hierarchy loaded",
		msg: UserMessage{
			Message: "No ALS has been loaded yet",
			Action:  "Upload an ALS and extract a matrix first",
			Code:    "SES002",
		},
	},
	{
		pattern: "master hierarchy changed",
		msg: UserMessage{
			Message: "The ALS was replaced while comparing",
			Action:  "Run the comparison again",
			Code:    "SES003",
		},
	},

	// =========================================================================
	// Store Errors
	// =========================================================================
	{
		pattern: "selection store",
		msg: UserMessage{
			Message: "Saved folder selection is unavailable",
			Action:  "Your selection still applies to this session; try again later",
			Code:    "STO001",
		},
	},

	// =========================================================================
	// Request Errors
	// =========================================================================
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System busy: too many uploads in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request body could not be read",
			Action:  "Send a JSON body matching the documented fields",
			Code:    "REQ001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("%w: LOGS", ErrMatrixNotFound))
//	// msg.Code == "ALS002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
