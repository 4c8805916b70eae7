package mysql

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens gorm with the production dialect and error translation on
// top of a sqlmock connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// sql turns literal statement fragments into a pattern that matches them in
// order, with anything in between.
func sql(parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ".*"
		}
		out += regexp.QuoteMeta(p)
	}
	return out
}

func duplicateEntry() error {
	return &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
}
