package peer_test

import (
	"testing"

	"github.com/ilmoi/minichain/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Set(t *testing.T) {
	t.Log("Given the need to maintain a set of known peers.")
	{
		ps := peer.NewSet()

		if !ps.Add(peer.New("host1:9080")) {
			t.Fatalf("\t%s\tShould report a new peer as added.", failed)
		}
		t.Logf("\t%s\tShould report a new peer as added.", success)

		if ps.Add(peer.New("host1:9080")) {
			t.Fatalf("\t%s\tShould not report a known peer as added.", failed)
		}
		t.Logf("\t%s\tShould not report a known peer as added.", success)

		ps.Add(peer.New("host2:9080"))

		peers := ps.Copy("host1:9080")
		if len(peers) != 1 || peers[0].Host != "host2:9080" {
			t.Fatalf("\t%s\tShould exclude the specified host from the copy.", failed)
		}
		t.Logf("\t%s\tShould exclude the specified host from the copy.", success)

		ps.Remove(peer.New("host2:9080"))
		if len(ps.Copy("")) != 1 {
			t.Fatalf("\t%s\tShould be able to remove a peer.", failed)
		}
		t.Logf("\t%s\tShould be able to remove a peer.", success)
	}
}

func Test_Match(t *testing.T) {
	p := peer.New("host1:9080")

	if !p.Match("host1:9080") {
		t.Fatalf("Should match its own host.")
	}

	if p.Match("host2:9080") {
		t.Fatalf("Should not match a different host.")
	}
}
