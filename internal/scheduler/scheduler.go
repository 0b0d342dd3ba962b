// Package scheduler fournit des tâches différées annulables, rattachées au
// composant qui les crée (connexion WebSocket, rotation des bannières...).
package scheduler

import (
	"sync"
	"time"
)

// Task est un appel différé unique.
type Task struct {
	timer *time.Timer
}

// After exécute fn une fois après d, sauf si Stop est appelé avant.
func After(d time.Duration, fn func()) *Task {
	return &Task{timer: time.AfterFunc(d, fn)}
}

// Stop annule la tâche et indique si l'appel a bien été empêché.
func (t *Task) Stop() bool {
	if t == nil || t.timer == nil {
		return false
	}
	return t.timer.Stop()
}

// Group possède des tâches et les annule toutes à la fermeture du composant.
type Group struct {
	mu      sync.Mutex
	pending map[*Task]struct{}
	running sync.WaitGroup
	closed  bool
}

func NewGroup() *Group {
	return &Group{pending: make(map[*Task]struct{})}
}

// After planifie fn dans le groupe. Après Close, rien n'est planifié et After renvoie nil.
func (g *Group) After(d time.Duration, fn func()) *Task {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}

	t := &Task{}
	g.pending[t] = struct{}{}
	g.running.Add(1)
	t.timer = time.AfterFunc(d, func() {
		defer g.running.Done()

		g.mu.Lock()
		_, ok := g.pending[t]
		delete(g.pending, t)
		g.mu.Unlock()

		if ok {
			fn()
		}
	})
	return t
}

// Pending renvoie le nombre de tâches pas encore déclenchées.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// Close annule les tâches en attente (renvoie leur nombre) puis attend celles déjà en cours.
// Ne pas appeler depuis une tâche du groupe.
func (g *Group) Close() int {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return 0
	}
	g.closed = true
	tasks := make([]*Task, 0, len(g.pending))
	for t := range g.pending {
		tasks = append(tasks, t)
	}
	g.pending = map[*Task]struct{}{}
	g.mu.Unlock()

	for _, t := range tasks {
		if t.timer.Stop() {
			g.running.Done()
		}
	}
	g.running.Wait()
	return len(tasks)
}
