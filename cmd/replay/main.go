package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelforge.dev/internal/persistence/snapshot"
	"voxelforge.dev/internal/protocol"
	"voxelforge.dev/internal/sim/terrain"
	"voxelforge.dev/internal/sim/tuning"
	"voxelforge.dev/internal/sim/world"
)

func main() {
	var (
		snapPath   = flag.String("snapshot", "", "path to .snap.zst (optional; omit to replay from a fresh seeded session)")
		eventsDir  = flag.String("events", "", "events dir containing events-*.jsonl.zst")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml (fresh replays only)")
		seed       = flag.Int64("seed", 1337, "world seed (fresh replays only)")
		fromTick   = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick     = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *eventsDir == "" {
		fmt.Fprintln(os.Stderr, "missing -events")
		os.Exit(2)
	}

	var w *world.World
	if *snapPath != "" {
		snap, err := snapshot.ReadSnapshot(*snapPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read snapshot:", err)
			os.Exit(1)
		}
		fmt.Printf("snapshot v%d world=%s tick=%d seed=%d voxels=%d\n",
			snap.Header.Version, snap.Header.WorldID, snap.Header.Tick, snap.Seed, len(snap.Voxels))
		w = world.NewFromSnapshot(world.WorldConfig{ID: snap.Header.WorldID}, snap)
	} else {
		tune, err := tuning.Load(*tuningPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		w = world.New(world.WorldConfig{
			ID:             "replay",
			TickRateHz:     tune.TickRateHz,
			Seed:           *seed,
			BoundaryR:      tune.BoundaryR,
			HitMaxDistance: tune.HitMaxDistance,
			Pad:            &tune.Pad,
			Controller: world.ControllerParams{
				WalkSpeed:        tune.WalkSpeed,
				FlySpeed:         tune.FlySpeed,
				Gravity:          tune.Gravity,
				TerminalVelocity: tune.TerminalVelocity,
				MaxJumpHeight:    tune.MaxJumpHeight,
				PlayerHeight:     tune.PlayerHeight,
				Sensitivity:      tune.Sensitivity,
			},
		})
		terrain.Generate(w.Store(), *seed, tune.BoundaryR, tune.MaxHillHeight)
	}

	startTick := w.Tick()
	verifyFrom := *fromTick
	if verifyFrom == 0 {
		verifyFrom = startTick + 1
	}

	files, err := listEventFiles(*eventsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}

	var checked uint64
	for _, path := range files {
		if err := replayFile(w, path, startTick, verifyFrom, *toTick, &checked); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		if *toTick != 0 && w.Tick() > *toTick {
			break
		}
	}
	fmt.Printf("replay ok: checked=%d ticks (final tick=%d digest=%s)\n", checked, w.Tick(), w.StateDigest())
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func replayFile(w *world.World, path string, startTick, verifyFrom, toTick uint64, checked *uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		line := sc.Bytes()
		var entry world.TickLogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if entry.Tick <= startTick {
			continue
		}
		if toTick != 0 && entry.Tick > toTick {
			return nil
		}
		if entry.Tick != w.Tick()+1 {
			return fmt.Errorf("tick gap: want=%d got=%d (file=%s)", w.Tick()+1, entry.Tick, filepath.Base(path))
		}

		inputs := append([]protocol.InputActions(nil), entry.Inputs...)

		var looks []world.LookDelta
		if entry.Look[0] != 0 || entry.Look[1] != 0 {
			looks = []world.LookDelta{{DX: entry.Look[0], DY: entry.Look[1]}}
		}

		picks := make([]world.PickRequest, 0, len(entry.Picks))
		for _, p := range entry.Picks {
			picks = append(picks, world.PickRequest{
				ClientID: p.ClientID,
				Action:   p.Action,
				Kind:     world.KindByName(p.Kind),
			})
		}

		tick, gotDigest := w.StepOnce(inputs, looks, picks)
		if tick != entry.Tick {
			return fmt.Errorf("internal tick mismatch: stepped=%d entry=%d (file=%s)", tick, entry.Tick, filepath.Base(path))
		}

		if tick >= verifyFrom {
			*checked++
			if gotDigest != entry.Digest {
				return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, gotDigest, entry.Digest)
			}
		}
	}
	return sc.Err()
}
