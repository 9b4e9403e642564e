package services

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/growcart/growcart_backend/models"
)

// NetworkService maintains the upline tree and answers downline queries.
type NetworkService struct {
	users UserStore
}

func NewNetworkService(users UserStore) *NetworkService {
	return &NetworkService{users: users}
}

// GetUplineChain exposes the ancestry resolver for dashboards: up to 5
// ancestors of the user, nearest first.
func (s *NetworkService) GetUplineChain(ctx context.Context, userID primitive.ObjectID) ([]models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ResolveUpline(ctx, s.users, user), nil
}

// RemoveUser deletes a user from the upline tree. Its direct children are
// re-pointed to the removed user's own upline first, so the tree stays
// connected. The referredBy/referralCode descendant view and any cached
// referralChain snapshots in the downline are deliberately left untouched;
// the two hierarchy encodings diverge after a removal.
func (s *NetworkService) RemoveUser(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	children, err := s.users.FindChildrenByUpline(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		if err := s.users.ReassignChildren(ctx, user.ID, user.UplineID); err != nil {
			return err
		}
		log.Printf("Re-pointed %d children of user %s to its upline", len(children), user.ID.Hex())
	}
	return s.users.Delete(ctx, user.ID)
}

// GetNetworkTree builds the descendant tree below a user, depth-limited, via
// the referredBy encoding. A visited set guards against cycles from corrupt
// data.
func (s *NetworkService) GetNetworkTree(ctx context.Context, userID primitive.ObjectID, maxDepth int) (*models.NetworkNode, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	root := &models.NetworkNode{
		UserID:       user.ID,
		FullName:     user.FullName,
		ReferralCode: user.ReferralCode,
		Role:         user.Role,
	}

	type frame struct {
		node  *models.NetworkNode
		depth int
	}
	visited := map[string]bool{user.ID.Hex(): true}
	queue := []frame{{node: root, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.node.ReferralCode == "" || (maxDepth > 0 && current.depth >= maxDepth) {
			continue
		}

		children, err := s.users.FindByReferredBy(ctx, current.node.ReferralCode)
		if err != nil {
			log.Printf("Network tree lookup for code %s failed: %v", current.node.ReferralCode, err)
			continue
		}
		for _, child := range children {
			if visited[child.ID.Hex()] {
				continue
			}
			visited[child.ID.Hex()] = true

			childNode := &models.NetworkNode{
				UserID:       child.ID,
				FullName:     child.FullName,
				ReferralCode: child.ReferralCode,
				Role:         child.Role,
			}
			current.node.Children = append(current.node.Children, childNode)
			queue = append(queue, frame{node: childNode, depth: current.depth + 1})
		}
	}
	return root, nil
}

// TeamStats counts direct referrals and the full downline subtree.
func (s *NetworkService) TeamStats(ctx context.Context, userID primitive.ObjectID) (*models.TeamStats, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.TeamStats{}
	if user.ReferralCode == "" {
		return stats, nil
	}

	direct, err := s.users.CountDirectReferrals(ctx, user.ReferralCode)
	if err != nil {
		return nil, err
	}
	stats.DirectReferrals = direct

	visited := map[string]bool{user.ID.Hex(): true}
	queue := []string{user.ReferralCode}
	for len(queue) > 0 {
		code := queue[0]
		queue = queue[1:]

		children, err := s.users.FindByReferredBy(ctx, code)
		if err != nil {
			log.Printf("Team size lookup for code %s failed: %v", code, err)
			continue
		}
		for _, child := range children {
			if visited[child.ID.Hex()] {
				continue
			}
			visited[child.ID.Hex()] = true
			stats.TeamSize++
			if child.ReferralCode != "" {
				queue = append(queue, child.ReferralCode)
			}
		}
	}
	return stats, nil
}
