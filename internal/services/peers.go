package services

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/pkg/models"
)

// PeerFinder selects students similar to a given one by Jaccard similarity
// over completed-course sets. With no source wired (nil finder or nil
// source) it finds nobody, which keeps the collaborative strategy at its
// neutral 0.5 baseline.
type PeerFinder struct {
	source    PeerSource
	threshold float64
	maxPeers  int
	logger    *logrus.Logger
}

func NewPeerFinder(source PeerSource, threshold float64, maxPeers int, logger *logrus.Logger) *PeerFinder {
	if maxPeers <= 0 {
		maxPeers = 10
	}
	return &PeerFinder{
		source:    source,
		threshold: threshold,
		maxPeers:  maxPeers,
		logger:    logger,
	}
}

// Jaccard computes |a ∩ b| / |a ∪ b| over two id sets. Two empty sets have
// similarity 0, not 1: students with no history are not peers of anyone.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for id := range a {
		if b[id] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// SimilarStudents returns up to maxPeers students whose completed sets
// overlap the given student's at or above the threshold, most similar first,
// ties broken by student id.
func (f *PeerFinder) SimilarStudents(ctx context.Context, student *models.StudentProfile) ([]models.StudentProfile, error) {
	if f == nil || f.source == nil {
		return nil, nil
	}

	candidates, err := f.source.Students(ctx)
	if err != nil {
		return nil, err
	}

	completed := student.CompletedSet()

	type scoredPeer struct {
		profile    models.StudentProfile
		similarity float64
	}

	var peers []scoredPeer
	for _, candidate := range candidates {
		if candidate.ID == student.ID {
			continue
		}
		similarity := Jaccard(completed, candidate.CompletedSet())
		if similarity >= f.threshold && similarity > 0 {
			peers = append(peers, scoredPeer{profile: candidate, similarity: similarity})
		}
	}

	sort.SliceStable(peers, func(i, j int) bool {
		if peers[i].similarity != peers[j].similarity {
			return peers[i].similarity > peers[j].similarity
		}
		return peers[i].profile.ID < peers[j].profile.ID
	})

	if len(peers) > f.maxPeers {
		peers = peers[:f.maxPeers]
	}

	result := make([]models.StudentProfile, len(peers))
	for i, p := range peers {
		result[i] = p.profile
	}

	f.logger.WithFields(logrus.Fields{
		"student_id": student.ID,
		"peers":      len(result),
	}).Debug("Peer search completed")

	return result, nil
}
