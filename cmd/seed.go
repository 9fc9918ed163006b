package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"civicreporter-be/config"
	"civicreporter-be/models"
	"civicreporter-be/store"
)

var (
	seedFile   string
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data from a YAML file",
	Long: `seed inserts departments, categories and staff members into the content
store. Relations may name a department by title; seed swaps in the id of the
department it created.

File format:
  departments:
    - title: Public Works
      metadata:
        contact_email: publicworks@city.gov
        categories: [potholes, streetlights]
  categories:
    - title: Potholes
      metadata:
        icon: "🕳️"
        department: Public Works
  staff-members:
    - title: Alex Kim
      metadata:
        email: alex@city.gov
        department: Public Works`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "reference.yaml", "YAML file with reference data")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Validate the file without writing")
}

// seedOrder inserts departments first so later kinds can refer to them.
var seedOrder = []models.ObjectType{models.KindDepartment, models.KindCategory, models.KindStaffMember}

type seedItem struct {
	Title    string         `yaml:"title"`
	Metadata map[string]any `yaml:"metadata"`
}

type seedFileData map[models.ObjectType][]seedItem

func parseSeedFile(data []byte) (seedFileData, error) {
	var parsed seedFileData
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for kind := range parsed {
		if !isSeedKind(kind) {
			return nil, fmt.Errorf("parse seed file: unsupported kind %q", kind)
		}
	}
	return parsed, nil
}

func isSeedKind(kind models.ObjectType) bool {
	for _, k := range seedOrder {
		if k == kind {
			return true
		}
	}
	return false
}

// seedReferenceData validates every item and, unless dryRun, inserts it.
// It returns the number of objects written.
func seedReferenceData(ctx context.Context, cs store.ContentStore, data seedFileData, dryRun bool, logger *slog.Logger) (int, error) {
	departmentIDs := make(map[string]string)
	written := 0

	for _, kind := range seedOrder {
		for i, item := range data[kind] {
			if item.Metadata == nil {
				item.Metadata = map[string]any{}
			}
			if name, ok := item.Metadata["department"].(string); ok {
				if id, found := departmentIDs[name]; found {
					item.Metadata["department"] = id
				}
			}

			raw, err := json.Marshal(map[string]any{"type": kind, "title": item.Title, "metadata": item.Metadata})
			if err != nil {
				return written, fmt.Errorf("%s[%d]: %w", kind, i, err)
			}
			entity, err := models.DecodeEntity(kind, raw)
			if err != nil {
				return written, fmt.Errorf("%s[%d]: %w", kind, i, err)
			}
			if item.Title == "" {
				return written, fmt.Errorf("%s[%d]: %w: title is required", kind, i, models.ErrInvalidInput)
			}
			if dryRun {
				departmentIDs[item.Title] = item.Title
				continue
			}

			var created models.Object
			ctxTimeout, cancel := context.WithTimeout(ctx, storeCallTimeout)
			err = cs.InsertOne(ctxTimeout, store.NewObject{Type: entity.Kind(), Title: item.Title, Metadata: item.Metadata}, &created)
			cancel()
			if err != nil {
				return written, fmt.Errorf("insert %s %q: %w", kind, item.Title, err)
			}
			if kind == models.KindDepartment {
				departmentIDs[item.Title] = created.ID
			}
			written++
			logger.Info("seeded object", "kind", kind, "title", item.Title, "id", created.ID)
		}
	}
	return written, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	parsed, err := parseSeedFile(data)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	be, err := openBackend(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	written, err := seedReferenceData(cmd.Context(), be.store, parsed, seedDryRun, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d objects from %s\n", written, seedFile)
	return nil
}
