package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

const defaultNodeID = 1

var (
	node *snowflake.Node
	mu   sync.Mutex
)

// Initialize sets up the Snowflake ID generator with a node ID.
// Once a node is set later calls have no effect; a failed call leaves it unset.
func Initialize(nodeID int64) error {
	mu.Lock()
	defer mu.Unlock()
	if node != nil {
		return nil
	}
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	node = n
	return nil
}

// GenerateID generates a new Snowflake ID as a string
func GenerateID() string {
	mu.Lock()
	if node == nil {
		// default node ID when the binary never initialized one
		node, _ = snowflake.NewNode(defaultNodeID)
	}
	n := node
	mu.Unlock()
	return n.Generate().String()
}
