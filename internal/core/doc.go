// Package core provides the reconciliation logic for ALS/SSD matrix comparison.
//
// An ALS (the master study design workbook) assigns forms to folders through
// a matrix sheet: one row per form, one column per folder, an "X" where the
// form belongs. An SSD export lists the same assignment as rows of folder and
// form codes. This package normalizes both sides into a [FolderFormMap] and
// reports where they disagree. It has no transport dependencies and can be
// used by web handlers, CLI tools, or tests without modification.
//
// # Pipeline
//
//  1. [ParseDelimited] / [ParseRows] turn text or worksheet rows into records
//  2. [ExtractMatrices] and [BuildHierarchy] read the master from a [Workbook]
//  3. [BuildFolderFormMap] resolves folder and form codes through ordered
//     alias lists ("FolderOID", "Folder OID", ...)
//  4. [Diff] computes both directions: forms present in SSD only and forms
//     present in ALS only
//  5. [RenderDiffReport] and [RenderHierarchyReport] export CSV reports with
//     display names chosen by [ResolveDisplayName]
//
// # Candidate Formats
//
// SSD files are decoded by formats registered at init time with
// [RegisterFormat]. Import internal/core/formats for csv, xlsx and json:
//
//	import _ "github.com/JonMunkholm/matrixdiff/internal/core/formats"
//
// Pasted text goes through [ParseCandidateText], which accepts JSON or
// delimited text.
//
// # Sessions
//
// A [Session] holds one master, the last candidate, its diff and the folder
// selection. Loading a new master replaces all of them together. The
// selection can be remembered across sessions through a [SelectionStore]
// backed by any [KeyValue]. [Service] keeps sessions in a bounded LRU cache
// and offers one-shot operations that need no session.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: File errors (size, encoding, format)
//   - ALS001-ALS003: Master workbook errors
//   - SSD001: Unrecognized candidate input
//   - SES001-SES003: Session errors
//   - STO001: Selection store errors
//   - UPL002-UPL005, RATE001, REQ001: Request errors
package core
