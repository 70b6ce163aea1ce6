package gates

import (
	"testing"

	"TradeCore/internal/domain/models"
)

func TestStructuralBlocksBuyIntoCallWall(t *testing.T) {
	walls := &models.WallData{CallWall: 50400, PutWall: 49500}

	ok, reason := Structural(models.ActionBuy, 50390, walls)
	if ok {
		t.Fatalf("buy at %v with call wall %v should be blocked", 50390, walls.CallWall)
	}
	if reason == "" {
		t.Fatal("expected block reason")
	}
}

func TestStructuralAllowsBuyWithClearance(t *testing.T) {
	walls := &models.WallData{CallWall: 50400, PutWall: 49500}

	ok, _ := Structural(models.ActionBuy, 50300, walls)
	if !ok {
		t.Fatal("buy with 100 points of clearance should pass")
	}
}

func TestStructuralBlocksSellIntoPutWall(t *testing.T) {
	walls := &models.WallData{CallWall: 50400, PutWall: 49500}

	ok, _ := Structural(models.ActionSell, 49510, walls)
	if ok {
		t.Fatal("sell just above the put wall should be blocked")
	}
}

func TestStructuralFailsOpenWithoutWallData(t *testing.T) {
	ok, reason := Structural(models.ActionBuy, 50000, nil)
	if !ok {
		t.Fatal("missing wall data must fail open")
	}
	if reason != "No wall data" {
		t.Fatalf("reason = %q", reason)
	}
}
