package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/repository"
)

const (
	// roomLockTTL страхует от вечно висящей блокировки при падении держателя
	roomLockTTL = 5 * time.Second

	// roomLockRetryInterval - пауза между попытками захвата
	roomLockRetryInterval = 50 * time.Millisecond

	// roomLockAcquireTimeout - максимальное время ожидания блокировки
	roomLockAcquireTimeout = 3 * time.Second
)

// RoomLocker сериализует мутации одной комнаты через Redis SetNX.
// Все писатели обязаны выполнять "прочитал комнату - решил - записал"
// как один блок под этой блокировкой; guard-условия в БД (conditional
// update статуса, составные unique-индексы) остаются второй линией защиты.
type RoomLocker struct {
	cache repository.CacheRepository
}

// NewRoomLocker создает новый локер комнат
func NewRoomLocker(cache repository.CacheRepository) *RoomLocker {
	return &RoomLocker{cache: cache}
}

// WithRoomLock выполняет fn под эксклюзивной блокировкой комнаты
func (l *RoomLocker) WithRoomLock(roomID uint, fn func() error) error {
	key := fmt.Sprintf("room:%d:lock", roomID)

	deadline := time.Now().Add(roomLockAcquireTimeout)
	for {
		acquired, err := l.cache.SetNX(key, "1", roomLockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire room lock: %w", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out acquiring lock for room #%d", roomID)
		}
		time.Sleep(roomLockRetryInterval)
	}

	defer func() {
		if err := l.cache.Delete(key); err != nil {
			// Не фатально: TTL снимет блокировку сам
			log.Printf("[RoomLocker] Не удалось освободить блокировку комнаты #%d: %v", roomID, err)
		}
	}()

	return fn()
}
