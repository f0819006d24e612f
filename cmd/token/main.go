// token 签发写操作使用的 JWT
//
//	APP_SECRET=... go run ./cmd/token -sub ops -role editor
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/user/movieapi/internal/config"
	"github.com/user/movieapi/internal/middleware"
)

func main() {
	cfg := config.Load()

	subject := flag.String("sub", "admin", "token subject")
	role := flag.String("role", "editor", "token role")
	ttl := flag.Duration("ttl", cfg.TokenExpiry, "token lifetime")
	flag.Parse()

	if cfg.AppSecret == "" {
		log.Fatal("APP_SECRET 未设置，无法签发 Token")
	}

	token, err := middleware.GenerateToken(*subject, *role, cfg.AppSecret, *ttl)
	if err != nil {
		log.Fatalf("签发失败: %v", err)
	}
	fmt.Println(token)
}
