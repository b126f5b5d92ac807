package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `SKRP` // 4 байта
	Version1    uint32 = 1
	Extension          = ".skrp"

	maxActions = 1 << 20
)

// ReplayFileHeader — это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type ReplayFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Seed        int64   // 8 байт
	Timestamp   int64   // 8 байт
	EnemyCount  int32   // 4 байта
	Class       uint8   // 1 байт
	NameLen     uint8   // 1 байт
	ActionCount int32   // 4 байта
}

// ActionRecord — одно действие игрока. Фиксированный размер, 28 байт.
type ActionRecord struct {
	Turn      int32
	AbilityID int64
	EntityID  int64
	TargetID  int64
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) (*ReplayService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}
	return &ReplayService{SaveDir: dir}, nil
}

// Save пишет сессию в новый файл и возвращает его путь.
func (s *ReplayService) Save(session domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%d_%s_%d%s",
		session.Seed, strings.ToLower(session.Class.String()), session.Timestamp, Extension)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if err := writeBinary(buf, session); err != nil {
		return "", err
	}
	if err := buf.Flush(); err != nil {
		return "", err
	}

	logger.For("replay_storage").WithFields(logrus.Fields{
		"path":    path,
		"actions": len(session.Actions),
	}).Info("Replay saved")
	return path, nil
}

func writeBinary(w io.Writer, s domain.ReplaySession) error {
	name := []byte(s.PlayerName)
	if len(name) > 255 {
		return fmt.Errorf("player name too long: %d", len(name))
	}
	if len(s.Actions) > maxActions {
		return fmt.Errorf("too many actions: %d", len(s.Actions))
	}

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := ReplayFileHeader{
		Version:     Version1,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		EnemyCount:  int32(s.EnemyCount),
		Class:       uint8(s.Class),
		NameLen:     uint8(len(name)),
		ActionCount: int32(len(s.Actions)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Имя игрока
	if _, err := w.Write(name); err != nil {
		return fmt.Errorf("failed to write player name: %w", err)
	}

	// 3. Действия. Все записи фиксированного размера, пишем срезом целиком.
	records := make([]ActionRecord, len(s.Actions))
	for i, act := range s.Actions {
		records[i] = ActionRecord{
			Turn:      int32(act.Turn),
			AbilityID: int64(act.AbilityID),
			EntityID:  int64(act.EntityID),
			TargetID:  int64(act.TargetID),
		}
	}
	if err := binary.Write(w, binary.LittleEndian, records); err != nil {
		return fmt.Errorf("failed to write actions: %w", err)
	}

	return nil
}
