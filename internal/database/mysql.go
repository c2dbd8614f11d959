package database

import (
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
)

// groupConcatMaxLen raises MySQL's 1024 byte default so long menus are not
// cut off mid-dish.
const groupConcatMaxLen = "1048576"

// NewMySQL opens a MySQL database connection.
// dsn format: "user:password@tcp(host:3306)/dbname"
func NewMySQL(dsn string) (*DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, wrap("parse mysql dsn", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["group_concat_max_len"]; !ok {
		cfg.Params["group_concat_max_len"] = groupConcatMaxLen
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, wrap("open mysql", err)
	}
	conn := sql.OpenDB(connector)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, wrap("ping mysql", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return &DB{conn: conn, dialect: mysqlDialect}, nil
}

// MySQLDSN assembles a DSN from discrete credentials.
func MySQLDSN(user, password, host, name string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = name
	return cfg.FormatDSN()
}
