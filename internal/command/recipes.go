package command

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/normalize"
	"github.com/logecui/pantry/internal/photo"
)

func newRecipesCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage the recipe book",
	}
	cmd.AddCommand(
		newRecipesListCmd(app),
		newRecipesSaveCmd(app),
		newRecipesPhotoCmd(app),
	)
	return cmd
}

func newRecipesPhotoCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "photo <name> <file>",
		Short: "Attach a photo to a recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			recipes, _, err := a.Engine.LoadRecipes(ctx)
			if err != nil {
				return err
			}
			var target *model.Recipe
			for i := range recipes {
				if normalize.Equal(recipes[i].Name, args[0]) {
					target = &recipes[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("no recipe named %q", args[0])
			}

			st := a.Config.Storage
			uploader := photo.NewUploader(photo.Config{
				Endpoint:      st.Endpoint,
				PublicBaseURL: st.PublicBaseURL,
				Bucket:        st.Bucket,
				Region:        st.Region,
				AccessKey:     st.AccessKey,
				SecretKey:     st.SecretKey,
			})
			url, err := uploader.UploadRecipePhoto(ctx, a.Session.UserID(), target.ID, args[1])
			if err != nil {
				return err
			}
			if err := a.Recipes.SetPhotoURL(ctx, target.ID, url); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Photo uploaded: %s\n", url)
			return nil
		},
	}
}

func newRecipesListCmd(app func() *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			items, origin, err := a.Engine.LoadRecipes(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tMIN\tRATING")
			shown := 0
			for _, r := range items {
				if category != "" && r.Category != model.ParseCategory(category) {
					continue
				}
				fav := ""
				if r.IsFavorite {
					fav = " *"
				}
				fmt.Fprintf(w, "%s%s\t%s\t%d\t%d/5\n", r.Name, fav, r.Category, r.PrepMinutes, r.Rating)
				shown++
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d recipes (%s)\n", shown, origin)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter by course (entree, plat, dessert)")
	return cmd
}

func newRecipesSaveCmd(app func() *App) *cobra.Command {
	var (
		category    string
		minutes     int
		rating      int
		ingredients []string
		external    string
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Create or update a recipe",
		Long: `Create or update a recipe. Saving the same --id twice updates the
existing row instead of duplicating it; without --id a new identity is
generated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			if external == "" {
				external = uuid.NewString()
			}
			recipe := model.Recipe{
				Name:        args[0],
				ExternalID:  external,
				Category:    model.ParseCategory(category),
				PrepMinutes: minutes,
				Rating:      rating,
			}
			if err := a.Recipes.Upsert(ctx, a.Session.UserID(), recipe); err != nil {
				return err
			}

			id, err := a.Recipes.IDByExternalID(ctx, a.Session.UserID(), external)
			if err != nil {
				return err
			}
			if id != "" && len(ingredients) > 0 {
				lines := make([]model.RecipeIngredient, 0, len(ingredients))
				for _, raw := range ingredients {
					name, qty, unit := parseLine(raw)
					lines = append(lines, model.RecipeIngredient{Name: name, Quantity: qty, Unit: unit})
				}
				if err := a.Lines.Replace(ctx, id, lines); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (id %s)\n", args[0], external)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "plat", "course (entree, plat, dessert)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "preparation time in minutes")
	cmd.Flags().IntVar(&rating, "rating", 3, "rating from 1 to 5")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, `ingredient line, "name:quantity:unit" (repeatable)`)
	cmd.Flags().StringVar(&external, "id", "", "stable identity for idempotent saves")
	return cmd
}

// parseLine splits "name:quantity:unit"; quantity and unit are optional.
func parseLine(raw string) (name, quantity, unit string) {
	parts := strings.SplitN(raw, ":", 3)
	name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		quantity = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		unit = strings.TrimSpace(parts[2])
	}
	return name, quantity, unit
}
