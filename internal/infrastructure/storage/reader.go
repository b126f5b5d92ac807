package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"skirmish-server/internal/domain"
)

var ErrInvalidReplay = errors.New("invalid replay file")

// Load читает файл реплея. Путь может быть абсолютным или относительным к рабочей папке.
func (s *ReplayService) Load(path string) (domain.ReplaySession, error) {
	return LoadFile(path)
}

// LoadFile читает реплей без сервиса (режим -replay в cmd/server).
func LoadFile(path string) (domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ReplaySession{}, err
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return domain.ReplaySession{}, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return domain.ReplaySession{}, fmt.Errorf("%w: bad magic %q", ErrInvalidReplay, header.Magic[:])
	}
	if header.Version != Version1 {
		return domain.ReplaySession{}, fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalidReplay, header.Version, Version1)
	}
	if header.ActionCount < 0 || header.ActionCount > maxActions {
		return domain.ReplaySession{}, fmt.Errorf("%w: action count %d", ErrInvalidReplay, header.ActionCount)
	}
	class := domain.PlayerClass(header.Class)
	if _, err := domain.ParsePlayerClass(class.String()); err != nil {
		return domain.ReplaySession{}, fmt.Errorf("%w: %v", ErrInvalidReplay, err)
	}

	session := domain.ReplaySession{
		Seed:       header.Seed,
		Timestamp:  header.Timestamp,
		EnemyCount: int(header.EnemyCount),
		Class:      class,
		Actions:    make([]domain.ReplayAction, header.ActionCount),
	}

	// 2. Имя игрока
	name := make([]byte, header.NameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return domain.ReplaySession{}, fmt.Errorf("failed to read player name: %w", err)
	}
	session.PlayerName = string(name)

	// 3. Действия
	records := make([]ActionRecord, header.ActionCount)
	if err := binary.Read(r, binary.LittleEndian, records); err != nil {
		return domain.ReplaySession{}, fmt.Errorf("failed to read actions: %w", err)
	}
	for i, rec := range records {
		session.Actions[i] = domain.ReplayAction{
			Turn:      int(rec.Turn),
			AbilityID: domain.EntityID(rec.AbilityID),
			EntityID:  domain.EntityID(rec.EntityID),
			TargetID:  domain.EntityID(rec.TargetID),
		}
	}

	return session, nil
}
