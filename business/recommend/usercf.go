package recommend

import (
	"math"
	"sort"

	"smartMarket/domain"
)

const (
	categoryOverlapBoost = 2.0
	neighbourCountBoost  = 0.2
)

// userBasedScores is user-to-user collaborative filtering: find the users
// most similar to the target, then propagate their engagement onto products
// the target has not touched.
//
// Similarity between two users is the sum of min(engagement) over products
// both interacted with, plus twice the average min/max ratio of their shared
// category interests, amplified by 1+ln(commonProducts+1) when any product
// overlap exists. Non-positive similarities are discarded.
func (e *Engine) userBasedScores(idx *catalogIndex, target domain.UserBehavior, targetInteractions map[string]*domain.ProductInteraction, allBehaviors []domain.UserBehavior) map[string]float64 {
	scores := make(map[string]float64)
	if len(allBehaviors) == 0 {
		return scores
	}

	targetInterest := e.categoryInterest(idx, targetInteractions)

	type neighbour struct {
		similarity   float64
		interactions map[string]*domain.ProductInteraction
	}

	neighbours := make([]neighbour, 0, len(allBehaviors))
	for _, other := range allBehaviors {
		if other.UserID == target.UserID {
			continue
		}

		otherInteractions := e.interactionMap(other)

		similarity := 0.0
		commonProducts := 0
		for id, targetInteraction := range targetInteractions {
			otherInteraction, ok := otherInteractions[id]
			if !ok {
				continue
			}
			commonProducts++
			similarity += math.Min(e.engagementScore(targetInteraction), e.engagementScore(otherInteraction))
		}

		otherInterest := e.categoryInterest(idx, otherInteractions)
		categorySimilarity := 0.0
		sharedCategories := 0
		for category, interest := range targetInterest {
			if other := otherInterest[category]; other > 0 {
				categorySimilarity += math.Min(interest, other) / math.Max(interest, other)
				sharedCategories++
			}
		}
		if sharedCategories > 0 {
			similarity += (categorySimilarity / float64(sharedCategories)) * categoryOverlapBoost
		}

		if commonProducts > 0 {
			similarity *= 1 + math.Log(float64(commonProducts)+1)
		}

		if similarity > 0 {
			neighbours = append(neighbours, neighbour{similarity, otherInteractions})
		}
	}

	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].similarity > neighbours[j].similarity
	})
	if len(neighbours) > e.cfg.TopSimilarUsers {
		neighbours = neighbours[:e.cfg.TopSimilarUsers]
	}
	if len(neighbours) == 0 {
		return scores
	}

	type accumulator struct {
		score float64
		count int
	}

	accumulated := make(map[string]accumulator)
	for _, nb := range neighbours {
		for id, interaction := range nb.interactions {
			if _, ok := targetInteractions[id]; ok {
				continue
			}
			acc := accumulated[id]
			acc.score += e.engagementScore(interaction) * nb.similarity
			acc.count++
			accumulated[id] = acc
		}
	}

	for id, acc := range accumulated {
		if idx.lookup(id) == nil {
			continue
		}
		avgScore := acc.score / float64(len(neighbours))
		scores[id] = avgScore + math.Log(float64(acc.count)+1)*neighbourCountBoost
	}

	return scores
}
