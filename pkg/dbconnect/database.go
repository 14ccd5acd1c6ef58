package dbconnect

type Database interface {
	DbConnector
	Ping() error
	Dialect() Dialect
}
