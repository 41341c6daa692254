package chalannumber

import (
	"fmt"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out chalan numbers that are never reused. Snowflake ids are time ordered and
// unique per node, so every process writing chalans needs its own node id.
type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create chalan number node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// Next returns a chalan number such as CH-1781234567890123456.
func (g *Generator) Next() string {
	return consts.ChalanNumberPrefix + g.node.Generate().String()
}
