package repo

import (
	"context"
	"time"

	"LostFound/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository - переписки по объявлениям.
type ChatRepository interface {
	// GetByItem возвращает чат с участниками и сообщениями или gorm.ErrRecordNotFound.
	GetByItem(ctx context.Context, kind model.ItemKind, itemID string) (*model.Chat, error)

	// GetOrCreate создаёт чат при первом обращении. participants добавляются только
	// при создании; при гонке двух создателей выживает один чат.
	GetOrCreate(ctx context.Context, kind model.ItemKind, itemID string, participants []int64) (*model.Chat, error)

	// AppendMessage добавляет сообщение и записывает отправителя в участники.
	AppendMessage(ctx context.Context, chatID string, msg *model.Message) error
}

type chatRepo struct {
	db *gorm.DB
}

// NewChatRepository создаёт репозиторий чатов.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) GetByItem(ctx context.Context, kind model.ItemKind, itemID string) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("item_kind = ? AND item_id = ?", kind, itemID).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	if err := r.fillUsers(ctx, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepo) GetOrCreate(ctx context.Context, kind model.ItemKind, itemID string, participants []int64) (*model.Chat, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat := model.Chat{ID: uuid.NewString(), ItemKind: kind, ItemID: itemID}
		res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_kind"}, {Name: "item_id"}},
			DoNothing: true,
		}).Create(&chat)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // уже существует
		}
		return addParticipants(tx, chat.ID, participants)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByItem(ctx, kind, itemID)
}

func (r *chatRepo) AppendMessage(ctx context.Context, chatID string, msg *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msg.ChatID = chatID
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now().UTC()
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := addParticipants(tx, chatID, []int64{msg.SenderID}); err != nil {
			return err
		}
		return tx.Model(&model.Chat{}).Where("id = ?", chatID).Update("updated_at", msg.CreatedAt).Error
	})
}

func addParticipants(tx *gorm.DB, chatID string, userIDs []int64) error {
	ids := uniqueIDs(userIDs)
	rows := make([]model.ChatParticipant, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		rows = append(rows, model.ChatParticipant{ChatID: chatID, UserID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *chatRepo) fillUsers(ctx context.Context, chat *model.Chat) error {
	ids := make([]int64, 0, len(chat.Participants)+len(chat.Messages))
	for _, p := range chat.Participants {
		ids = append(ids, p.UserID)
	}
	for _, m := range chat.Messages {
		ids = append(ids, m.SenderID)
	}
	refs, err := loadUserRefs(ctx, r.db, ids)
	if err != nil {
		return err
	}
	for i := range chat.Participants {
		chat.Participants[i].User = refs[chat.Participants[i].UserID]
	}
	for i := range chat.Messages {
		chat.Messages[i].Sender = refs[chat.Messages[i].SenderID]
	}
	return nil
}
