package pgrepos

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

// jsonb stores any JSON-marshallable value in a JSONB column.
type jsonb struct {
	v interface{}
}

func (j jsonb) Value() (driver.Value, error) {
	b, err := json.Marshal(j.v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *jsonb) Scan(src interface{}) error {
	var b []byte
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		b = data
	case string:
		b = []byte(data)
	default:
		return errors.Errorf("jsonb: cannot scan %T", src)
	}
	return json.Unmarshal(b, j.v)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
