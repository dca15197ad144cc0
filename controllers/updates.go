package controllers

import (
	"strings"

	"github.com/kendall-kelly/tna-tracker-api/services"
	"github.com/kendall-kelly/tna-tracker-api/utils"
)

// updateSet collects the columns a partial update writes. Fields left nil in
// the request are not touched; the first invalid field is kept in err.
type updateSet struct {
	values map[string]interface{}
	err    error
}

func newUpdateSet() *updateSet {
	return &updateSet{values: make(map[string]interface{})}
}

func (u *updateSet) fail(err error) {
	if u.err == nil {
		u.err = err
	}
}

// text writes a trimmed string; required columns reject blank values
func (u *updateSet) text(column string, value *string, required bool) {
	if value == nil {
		return
	}
	v := strings.TrimSpace(*value)
	if required && v == "" {
		u.fail(services.BadRequest("VALIDATION_ERROR", column+" cannot be empty"))
		return
	}
	u.values[column] = v
}

// date writes a required date column
func (u *updateSet) date(column string, value *string) {
	if value == nil {
		return
	}
	t, err := utils.ParseDate(*value)
	if err != nil {
		u.fail(services.BadRequest("INVALID_DATE", "Invalid date format"))
		return
	}
	u.values[column] = t
}

// optionalDate writes a nullable date column; an empty string clears it
func (u *updateSet) optionalDate(column string, value *string) {
	if value == nil {
		return
	}
	t, err := utils.ParseOptionalDate(value)
	if err != nil {
		u.fail(services.BadRequest("INVALID_DATE", "Invalid date format"))
		return
	}
	u.values[column] = t
}

func (u *updateSet) set(column string, value interface{}) {
	u.values[column] = value
}

func (u *updateSet) empty() bool {
	return len(u.values) == 0
}
