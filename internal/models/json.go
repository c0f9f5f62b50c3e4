package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON wraps gorm.io/datatypes.JSON so the column type can be chosen per
// dialect. State documents and archive payloads are stored through it.
type JSON struct {
	datatypes.JSON
}

// NewJSON wraps an already encoded document.
func NewJSON(b []byte) JSON {
	return JSON{JSON: datatypes.JSON(b)}
}

// Bytes returns the raw encoded document.
func (j JSON) Bytes() []byte {
	return []byte(j.JSON)
}

// Value promotes the embedded JSON's Value method
func (j JSON) Value() (driver.Value, error) {
	return j.JSON.Value()
}

// Scan promotes the embedded JSON's Scan method
func (j *JSON) Scan(value interface{}) error {
	return j.JSON.Scan(value)
}

// GormDBDataType picks a column type every supported driver accepts and
// that hands documents back byte for byte, indentation and key order
// included. State documents outgrow NVARCHAR(4000) quickly, so MSSQL gets
// NVARCHAR(MAX). Postgres uses JSON rather than JSONB, which normalizes.
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "LONGTEXT"
	case "postgres":
		return "JSON"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
