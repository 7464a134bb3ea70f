// main.go

package main

import (
	"flag"
	"log"

	"github.com/jacl-coder/PixelStorm-Survival/config"
	"github.com/jacl-coder/PixelStorm-Survival/pkg/db"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	action := flag.String("action", "help", "操作类型: init, reset, help")
	flag.Parse()

	if *action == "help" {
		showHelp()
		return
	}

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("初始化PostgreSQL失败: %v", err)
	}
	defer db.Close()

	switch *action {
	case "init":
		if err := db.InitAllTables(); err != nil {
			log.Fatalf("初始化数据库表失败: %v", err)
		}
		log.Printf("数据库初始化完成，已创建的表: %v", db.Tables)
	case "reset":
		log.Println("正在重置数据库，这将删除所有对局记录")
		if err := db.DropAllTables(); err != nil {
			log.Fatalf("重置数据库失败: %v", err)
		}
		if err := db.InitAllTables(); err != nil {
			log.Fatalf("初始化数据库表失败: %v", err)
		}
		log.Println("数据库重置完成")
	default:
		log.Fatalf("未知操作: %s", *action)
	}
}

func showHelp() {
	log.Println("PixelStorm 数据库管理工具")
	log.Println("")
	log.Println("用法:")
	log.Println("  dbmanager -action=<操作> [-config=<配置文件>]")
	log.Println("")
	log.Println("操作:")
	log.Println("  init   - 创建表结构")
	log.Println("  reset  - 删除并重新创建表结构")
	log.Println("  help   - 显示此帮助信息")
}
