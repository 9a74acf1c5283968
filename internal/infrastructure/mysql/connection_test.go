package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"easyorder/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{User: "root", Password: "pw", Host: "db", Port: 3307, Name: "magento"})

	assert.Contains(t, dsn, "root:pw@tcp(db:3307)/magento")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestIsDeadlock(t *testing.T) {
	assert.True(t, IsDeadlock(&mysql.MySQLError{Number: 1213}))
	assert.True(t, IsDeadlock(fmt.Errorf("inserting order: %w", &mysql.MySQLError{Number: 1205})))
	assert.False(t, IsDeadlock(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDeadlock(errors.New("boom")))
}
