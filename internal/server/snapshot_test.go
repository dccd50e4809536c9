package server

import "testing"

func snapshotPlayers(t *testing.T, payload map[string]any) []map[string]any {
	t.Helper()
	raw, ok := payload["players"].([]map[string]any)
	if !ok {
		t.Fatalf("players missing from snapshot: %T", payload["players"])
	}
	return raw
}

func TestSnapshotHidesRolesMidRound(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)
	toCluePhase(t, s, room)
	_, innocents := splitRoles(room)
	viewer := innocents[0]

	payload := snapshot(room, viewer.ID)
	for _, entry := range snapshotPlayers(t, payload) {
		id := entry["id"].(string)
		_, revealed := entry["is_imposter"]
		if id == viewer.ID && !revealed {
			t.Error("viewer cannot see their own role")
		}
		if id != viewer.ID && revealed {
			t.Errorf("role of %s leaked mid-round", id)
		}
		if secret, ok := entry["secret"]; ok && id != viewer.ID {
			t.Errorf("secret %v of %s leaked to viewer", secret, id)
		}
	}

	round := payload["round"].(map[string]any)
	if _, ok := round["secret_word"]; ok {
		t.Error("secret word exposed before the round is over")
	}
}

func TestSnapshotRevealsEverythingAfterResolution(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 4, 1)
	toVoting(t, s, room)
	imposters, innocents := splitRoles(room)

	if _, err := s.SubmitVote(room.Code, imposters[0].ID, innocents[0].ID); err != nil {
		t.Fatalf("vote: %v", err)
	}
	for _, innocent := range innocents {
		if _, err := s.SubmitVote(room.Code, innocent.ID, imposters[0].ID); err != nil {
			t.Fatalf("vote: %v", err)
		}
	}

	payload := snapshot(room, innocents[0].ID)
	for _, entry := range snapshotPlayers(t, payload) {
		if _, revealed := entry["is_imposter"]; !revealed {
			t.Errorf("role of %s hidden after the round resolved", entry["id"])
		}
	}
	round := payload["round"].(map[string]any)
	if round["secret_word"] != currentRound(room).Word {
		t.Errorf("secret_word = %v, want %s", round["secret_word"], currentRound(room).Word)
	}
	if _, ok := round["votes"]; !ok {
		t.Error("vote breakdown missing from the resolved round")
	}
}

func TestSnapshotOrdersPlayersByTurn(t *testing.T) {
	s := newTestServer(t)
	room := seatRoom(t, s, 5, 1)
	toCluePhase(t, s, room)

	payload := snapshot(room, "")
	previous := -1
	for _, entry := range snapshotPlayers(t, payload) {
		order := entry["turn_order"].(int)
		if order <= previous {
			t.Fatalf("players out of turn order: %d after %d", order, previous)
		}
		previous = order
	}
}
