package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/hetulpatel/appealdigest/internal/cache"
)

func main() {
	godotenv.Load()

	key := flag.String("key", "", "naming key (process number or file stem)")
	flag.Parse()
	if *key == "" {
		log.Fatal("-key required")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	status, err := cache.NewRedisStatusCache(addr, os.Getenv("REDIS_PASSWORD"), db, 0, "")
	if err != nil {
		log.Fatal(err)
	}
	defer status.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, ok, err := status.Get(ctx, *key)
	if err != nil {
		log.Fatal(err)
	}
	if !ok {
		fmt.Printf("no status for %s\n", *key)
		return
	}
	b, _ := json.MarshalIndent(st, "", "  ")
	fmt.Println(string(b))
}
