package services

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"
)

func clockAt(t *testing.T, hhmmss string) Clock {
	t.Helper()
	tod, err := ParseTimeOfDay(hhmmss)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", hhmmss, err)
	}
	return FixedClock(time.Date(2024, 1, 1, tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC))
}

// newAmelies builds the restaurant used across these tests: 10:30-22:00 with two items.
func newAmelies(t *testing.T, clock Clock) *Restaurant {
	t.Helper()
	r, err := NewRestaurant("Amelie's cafe", "Chennai",
		MustParseTimeOfDay("10:30:00"), MustParseTimeOfDay("22:00:00"), clock)
	if err != nil {
		t.Fatalf("NewRestaurant: %v", err)
	}
	if err := r.AddToMenu("Sweet corn soup", 119); err != nil {
		t.Fatalf("AddToMenu: %v", err)
	}
	if err := r.AddToMenu("Vegetable lasagne", 269); err != nil {
		t.Fatalf("AddToMenu: %v", err)
	}
	return r
}

func TestNewRestaurant_EmptyMenu(t *testing.T) {
	r, err := NewRestaurant("Amelie's cafe", "Chennai",
		MustParseTimeOfDay("10:30:00"), MustParseTimeOfDay("22:00:00"), nil)
	if err != nil {
		t.Fatalf("NewRestaurant: %v", err)
	}
	if n := len(r.Menu()); n != 0 {
		t.Errorf("len(Menu()) = %d, want 0", n)
	}
	if r.Name() != "Amelie's cafe" || r.Location() != "Chennai" {
		t.Errorf("identity = %q/%q", r.Name(), r.Location())
	}
}

func TestNewRestaurant_Validation(t *testing.T) {
	ten := MustParseTimeOfDay("10:00")
	twenty := MustParseTimeOfDay("20:00")
	tests := []struct {
		name             string
		rname, location  string
		opening, closing TimeOfDay
		wantHours        bool
	}{
		{"empty name", "", "Chennai", ten, twenty, false},
		{"empty location", "Cafe", "", ten, twenty, false},
		{"closing before opening", "Cafe", "Chennai", twenty, ten, true},
		{"closing equals opening", "Cafe", "Chennai", ten, ten, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRestaurant(tt.rname, tt.location, tt.opening, tt.closing, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalidHours); got != tt.wantHours {
				t.Errorf("errors.Is(err, ErrInvalidHours) = %v, want %v (err=%v)", got, tt.wantHours, err)
			}
		})
	}
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		now  string
		want bool
	}{
		{"11:00:00", true},
		{"21:59:59", true},
		{"10:30:01", true},
		{"10:00:00", false}, // early
		{"23:00:00", false}, // late
		{"10:30:00", false}, // exactly opening
		{"22:00:00", false}, // exactly closing
		{"00:00:00", false},
	}
	for _, tt := range tests {
		r := newAmelies(t, clockAt(t, tt.now))
		if got := r.IsOpen(); got != tt.want {
			t.Errorf("IsOpen() at %s = %v, want %v", tt.now, got, tt.want)
		}
		if got := r.IsOpenAt(MustParseTimeOfDay(tt.now)); got != tt.want {
			t.Errorf("IsOpenAt(%s) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestIsOpen_ReadsClockEachCall(t *testing.T) {
	calls := 0
	now := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	r := newAmelies(t, ClockFunc(func() time.Time {
		calls++
		return now
	}))
	if !r.IsOpen() {
		t.Error("expected open at 11:00")
	}
	now = time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	if r.IsOpen() {
		t.Error("expected closed at 23:00")
	}
	if calls != 2 {
		t.Errorf("clock calls = %d, want 2", calls)
	}
}

func TestAddToMenu(t *testing.T) {
	r := newAmelies(t, nil)
	initial := len(r.Menu())

	if err := r.AddToMenu("Sizzling brownie", 319); err != nil {
		t.Fatalf("AddToMenu: %v", err)
	}
	if got := len(r.Menu()); got != initial+1 {
		t.Errorf("menu size = %d, want %d", got, initial+1)
	}

	// Re-adding keeps size and position, updates price.
	if err := r.AddToMenu("Sweet corn soup", 129); err != nil {
		t.Fatalf("AddToMenu: %v", err)
	}
	menu := r.Menu()
	if len(menu) != initial+1 {
		t.Errorf("menu size after overwrite = %d, want %d", len(menu), initial+1)
	}
	if menu[0].Name != "Sweet corn soup" || menu[0].Price != 129 {
		t.Errorf("menu[0] = %+v, want Sweet corn soup/129", menu[0])
	}
}

func TestAddToMenu_Rejects(t *testing.T) {
	r := newAmelies(t, nil)
	if err := r.AddToMenu("Free water", -1); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("AddToMenu(negative) err = %v, want ErrInvalidPrice", err)
	}
	if err := r.AddToMenu("", 10); err == nil {
		t.Error("AddToMenu(empty name) should fail")
	}
	if err := r.AddToMenu("Free water", 0); err != nil {
		t.Errorf("AddToMenu(zero price) err = %v", err)
	}
	if got := len(r.Menu()); got != 3 {
		t.Errorf("menu size = %d, want 3", got)
	}
}

func TestRemoveFromMenu(t *testing.T) {
	r := newAmelies(t, nil)
	initial := len(r.Menu())

	if err := r.RemoveFromMenu("Vegetable lasagne"); err != nil {
		t.Fatalf("RemoveFromMenu: %v", err)
	}
	if got := len(r.Menu()); got != initial-1 {
		t.Errorf("menu size = %d, want %d", got, initial-1)
	}
	if _, err := r.Price("Vegetable lasagne"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Price after remove err = %v, want ErrItemNotFound", err)
	}
	if err := r.RemoveFromMenu("Vegetable lasagne"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("second RemoveFromMenu err = %v, want ErrItemNotFound", err)
	}
}

func TestRemoveFromMenu_NotFound(t *testing.T) {
	r := newAmelies(t, nil)
	err := r.RemoveFromMenu("French fries")
	var nf *ItemNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("RemoveFromMenu err = %v, want *ItemNotFoundError", err)
	}
	if nf.Name != "French fries" {
		t.Errorf("ItemNotFoundError.Name = %q", nf.Name)
	}
	if got := len(r.Menu()); got != 2 {
		t.Errorf("menu size = %d, want 2 (unchanged)", got)
	}
}

func TestRemoveFromMenu_KeepsOrder(t *testing.T) {
	r := newAmelies(t, nil)
	_ = r.AddToMenu("Sizzling brownie", 319)
	if err := r.RemoveFromMenu("Sweet corn soup"); err != nil {
		t.Fatal(err)
	}
	menu := r.Menu()
	if len(menu) != 2 || menu[0].Name != "Vegetable lasagne" || menu[1].Name != "Sizzling brownie" {
		t.Fatalf("menu = %+v", menu)
	}
	// Index must follow the shift.
	if p, err := r.Price("Sizzling brownie"); err != nil || p != 319 {
		t.Errorf("Price(Sizzling brownie) = %d, %v", p, err)
	}
}

func TestMenu_ReturnsCopy(t *testing.T) {
	r := newAmelies(t, nil)
	menu := r.Menu()
	menu[0].Price = 1
	if p, _ := r.Price("Sweet corn soup"); p != 119 {
		t.Errorf("menu mutated through copy: price = %d", p)
	}
}

func TestCalculatePriceOfItems(t *testing.T) {
	r := newAmelies(t, nil)

	total, err := r.CalculatePriceOfItems([]string{"Sweet corn soup", "Vegetable lasagne"})
	if err != nil || total != 119+269 {
		t.Errorf("total = %d, %v; want %d", total, err, 119+269)
	}

	_ = r.AddToMenu("Sizzling brownie", 319)
	tests := []struct {
		name  string
		items []string
		want  int64
	}{
		{"all three", []string{"Sweet corn soup", "Vegetable lasagne", "Sizzling brownie"}, 707},
		{"reordered", []string{"Sizzling brownie", "Sweet corn soup", "Vegetable lasagne"}, 707},
		{"duplicates", []string{"Sweet corn soup", "Sweet corn soup"}, 238},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.CalculatePriceOfItems(tt.items)
			if err != nil {
				t.Fatalf("CalculatePriceOfItems: %v", err)
			}
			if got != tt.want {
				t.Errorf("CalculatePriceOfItems(%q) = %d, want %d", tt.items, got, tt.want)
			}
		})
	}
}

func TestCalculatePriceOfItems_MissingItem(t *testing.T) {
	r := newAmelies(t, nil)
	total, err := r.CalculatePriceOfItems([]string{"Sweet corn soup", "French fries", "Garlic bread"})
	var nf *ItemNotFoundError
	if !errors.As(err, &nf) || nf.Name != "French fries" {
		t.Fatalf("err = %v, want ItemNotFoundError for French fries", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 on failure", total)
	}
}

func TestCalculatePriceOfItems_Overflow(t *testing.T) {
	r := newAmelies(t, nil)
	if err := r.AddToMenu("Gold leaf platter", math.MaxInt64); err != nil {
		t.Fatalf("AddToMenu: %v", err)
	}
	if got, err := r.CalculatePriceOfItems([]string{"Gold leaf platter"}); err != nil || got != math.MaxInt64 {
		t.Errorf("single item = %d, %v; want %d", got, err, int64(math.MaxInt64))
	}
	got, err := r.CalculatePriceOfItems([]string{"Gold leaf platter", "Sweet corn soup"})
	if !errors.Is(err, ErrPriceOverflow) {
		t.Errorf("err = %v, want ErrPriceOverflow", err)
	}
	if got != 0 {
		t.Errorf("total = %d, want 0", got)
	}
}

// Run with -race.
func TestRestaurant_ConcurrentUse(t *testing.T) {
	r := newAmelies(t, clockAt(t, "11:00:00"))
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				name := fmt.Sprintf("Special %d", i%5)
				if err := r.AddToMenu(name, int64(g*100+i)); err != nil {
					t.Errorf("AddToMenu(%q): %v", name, err)
					return
				}
				if err := r.RemoveFromMenu(name); err != nil && !errors.Is(err, ErrItemNotFound) {
					t.Errorf("RemoveFromMenu(%q): %v", name, err)
					return
				}
				for _, it := range r.Menu() {
					if it.Name == "" || it.Price < 0 {
						t.Errorf("Menu() returned %+v", it)
						return
					}
				}
				if _, err := r.CalculatePriceOfItems([]string{"Sweet corn soup", name}); err != nil && !errors.Is(err, ErrItemNotFound) {
					t.Errorf("CalculatePriceOfItems: %v", err)
					return
				}
				if !r.IsOpen() {
					t.Error("IsOpen() = false at 11:00")
					return
				}
			}
		}(g)
	}
	wg.Wait()

	total, err := r.CalculatePriceOfItems([]string{"Sweet corn soup", "Vegetable lasagne"})
	if err != nil || total != 388 {
		t.Errorf("total after concurrent edits = %d, %v; want 388", total, err)
	}
}
