package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"skirmish-server/internal/domain"
	"skirmish-server/internal/infrastructure/storage"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "show":
		session, err := storage.LoadFile(os.Args[2])
		if err != nil {
			fmt.Printf("Invalid replay: %v\n", err)
			os.Exit(1)
		}
		printSession(session, true)
	case "list":
		files, err := filepath.Glob(filepath.Join(os.Args[2], "*"+storage.Extension))
		if err != nil {
			fmt.Printf("Invalid directory: %v\n", err)
			os.Exit(1)
		}
		sort.Strings(files)
		for _, path := range files {
			session, err := storage.LoadFile(path)
			if err != nil {
				fmt.Printf("%s: %v\n", filepath.Base(path), err)
				continue
			}
			fmt.Printf("%s: ", filepath.Base(path))
			printSession(session, false)
		}
	case "format":
		ts, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid timestamp: %v\n", err)
			return
		}
		fmt.Println(time.Unix(ts, 0).Format(time.RFC3339))
	default:
		printHelp()
	}
}

func printSession(s domain.ReplaySession, withActions bool) {
	fmt.Printf("seed=%d recorded=%s player=%q class=%s enemies=%d actions=%d\n",
		s.Seed,
		time.Unix(s.Timestamp, 0).Format(time.RFC3339),
		s.PlayerName,
		s.Class,
		s.EnemyCount,
		len(s.Actions),
	)
	if !withActions {
		return
	}
	for i, act := range s.Actions {
		fmt.Printf("  %3d turn=%-3d ability=%s entity=%s target=%s\n", i+1, act.Turn, act.AbilityID, act.EntityID, act.TargetID)
	}
}

func printHelp() {
	fmt.Println(`Replay Info - просмотр файлов .skrp
Commands:
  show <file>            - заголовок и все действия игрока
  list <dir>             - краткая сводка по всем реплеям в папке
  format <timestamp>     - преобразовать Unix время в читаемый формат`)
}
