// schema.go

package db

import "database/sql"

// CreateAllTablesSQL 创建所有表的SQL语句
// 只保存结束的对局结果，不保存游戏过程状态
const CreateAllTablesSQL = `
-- 对局记录表
CREATE TABLE IF NOT EXISTS run_records (
    id UUID PRIMARY KEY,
    player_name VARCHAR(50) NOT NULL,
    wave INT NOT NULL DEFAULT 0,
    level INT NOT NULL DEFAULT 1,
    kills INT NOT NULL DEFAULT 0,
    survived DOUBLE PRECISION NOT NULL DEFAULT 0, -- 存活时间(秒)
    score INT NOT NULL DEFAULT 0,
    kills_by_type JSONB NOT NULL DEFAULT '{}',
    started_at TIMESTAMP WITH TIME ZONE NOT NULL,
    ended_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_records_player ON run_records(player_name, ended_at DESC);
CREATE INDEX IF NOT EXISTS idx_run_records_score ON run_records(score DESC);
`

// DropAllTablesSQL 删除所有表的SQL语句
const DropAllTablesSQL = `
DROP TABLE IF EXISTS run_records CASCADE;
`

// Tables 已定义的表
var Tables = []string{"run_records"}

// InitAllTables 初始化所有数据库表
func InitAllTables() error {
	return execSchema(DB, CreateAllTablesSQL)
}

// DropAllTables 删除所有数据库表
func DropAllTables() error {
	return execSchema(DB, DropAllTablesSQL)
}

func execSchema(conn *sql.DB, stmt string) error {
	_, err := conn.Exec(stmt)
	return err
}
