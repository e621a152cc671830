package utils

import (
	"database/sql/driver"
	"errors"
	"net"
	"testing"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

func TestIsConnectionError(t *testing.T) {
	if IsConnectionError(nil) {
		t.Error("nil is not a connection error")
	}
	if IsConnectionError(errors.New("some data problem")) {
		t.Error("plain errors are not connection errors")
	}
	if !IsConnectionError(driver.ErrBadConn) {
		t.Error("expected driver.ErrBadConn to classify as connection error")
	}
	if !IsConnectionError(mysqlDriver.ErrInvalidConn) {
		t.Error("expected mysql.ErrInvalidConn to classify as connection error")
	}
	netErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	if !IsConnectionError(netErr) {
		t.Error("expected net.OpError to classify as connection error")
	}
}
