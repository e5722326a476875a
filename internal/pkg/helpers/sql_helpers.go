package helpers

import "database/sql"

// GetNullString returns a sql.NullString for a nullable string pointer.
func GetNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtrFromNull converts a sql.NullString back into a string pointer.
func StringPtrFromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// StringPtr returns a pointer to s, or nil when s is empty. Useful when
// mapping optional form fields into nullable columns.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
