package services

import (
	"context"
	"fmt"
	"sync"

	"restaurant-bot/logger"
	"restaurant-bot/models"
)

// MenuPersister stores menu changes. PostgresMenu is the production implementation.
type MenuPersister interface {
	SaveMenuItem(ctx context.Context, restaurantID int64, item models.MenuItem) error
	DeleteMenuItem(ctx context.Context, restaurantID int64, name string) error
}

// MenuEventPublisher receives a notification after each stored change.
type MenuEventPublisher interface {
	PublishMenuEvent(ctx context.Context, ev models.MenuEvent) error
}

// MenuService applies menu edits to the in-memory restaurant, the store and the event stream.
// Store and events may be nil.
type MenuService struct {
	restaurant *Restaurant
	store      MenuPersister
	events     MenuEventPublisher
	log        *logger.Logger

	mu sync.Mutex // orders store writes with memory updates; not held while publishing
}

func NewMenuService(r *Restaurant, store MenuPersister, events MenuEventPublisher, log *logger.Logger) *MenuService {
	if log == nil {
		log = logger.Nop()
	}
	return &MenuService{restaurant: r, store: store, events: events, log: log}
}

func (s *MenuService) Restaurant() *Restaurant { return s.restaurant }

// Add stores the item first and only then updates the in-memory menu.
func (s *MenuService) Add(ctx context.Context, name string, price int64) error {
	if name == "" {
		return fmt.Errorf("item name is required")
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	s.mu.Lock()
	ev, err := s.addLocked(ctx, name, price)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(ctx, ev)
	return nil
}

func (s *MenuService) addLocked(ctx context.Context, name string, price int64) (models.MenuEvent, error) {
	if s.store != nil {
		if err := s.store.SaveMenuItem(ctx, s.restaurant.ID, models.MenuItem{Name: name, Price: price}); err != nil {
			s.log.Error("menu_add", "failed to store menu item", err, "item", name)
			return models.MenuEvent{}, fmt.Errorf("save menu item: %w", err)
		}
	}
	if err := s.restaurant.AddToMenu(name, price); err != nil {
		return models.MenuEvent{}, err
	}
	s.log.Info("menu_add", "menu item saved", "item", name, "price", price)
	return s.event(models.MenuEventItemAdded, name, price), nil
}

// Remove fails with ErrItemNotFound without touching the store when the item is not on the menu.
func (s *MenuService) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	ev, err := s.removeLocked(ctx, name)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(ctx, ev)
	return nil
}

func (s *MenuService) removeLocked(ctx context.Context, name string) (models.MenuEvent, error) {
	if _, err := s.restaurant.Price(name); err != nil {
		return models.MenuEvent{}, err
	}
	if s.store != nil {
		if err := s.store.DeleteMenuItem(ctx, s.restaurant.ID, name); err != nil {
			s.log.Error("menu_remove", "failed to delete menu item", err, "item", name)
			return models.MenuEvent{}, fmt.Errorf("delete menu item: %w", err)
		}
	}
	if err := s.restaurant.RemoveFromMenu(name); err != nil {
		return models.MenuEvent{}, err
	}
	s.log.Info("menu_remove", "menu item removed", "item", name)
	return s.event(models.MenuEventItemRemoved, name, 0), nil
}

// event snapshots the menu size; call it while holding s.mu.
func (s *MenuService) event(typ, item string, price int64) models.MenuEvent {
	return models.MenuEvent{
		Type:         typ,
		RestaurantID: s.restaurant.ID,
		Restaurant:   s.restaurant.Name(),
		Item:         item,
		Price:        price,
		MenuSize:     len(s.restaurant.Menu()),
	}
}

// publish runs outside s.mu so a slow broker does not block other edits.
// It is best effort: the change is already stored, so failures are only logged.
func (s *MenuService) publish(ctx context.Context, ev models.MenuEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMenuEvent(ctx, ev); err != nil {
		s.log.Error("menu_event", "failed to publish menu event", err, "type", ev.Type, "item", ev.Item)
	}
}
