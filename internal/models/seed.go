package models

import "time"

func seedDate(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

// SeedCatalog returns the demo catalog used when neither a remote store nor
// a local snapshot has any notes yet.
func SeedCatalog() []Note {
	return []Note{
		{
			ID:          "1",
			Title:       "Advanced React Architecture",
			Description: "Deep dive into patterns, hooks, and state management strategies for enterprise apps.",
			Body:        "Long content about React patterns... Context API vs Redux vs Zustand...",
			Author:      "Sarah Chen",
			Price:       1599.00,
			Category:    CategoryProgramming,
			Rating:      4.8,
			RatingCount: 12,
			Tags:        []string{"React", "Frontend", "Software Architecture"},
			CreatedAt:   seedDate("2024-03-15"),
		},
		{
			ID:          "2",
			Title:       "Organic Chemistry: Reaction Mechanisms",
			Description: "A comprehensive guide to SN1, SN2, E1, and E2 reactions with visual diagrams.",
			Body:        "Nucleophilic substitution involves a nucleophile attacking an electrophile...",
			Author:      "Dr. James Wilson",
			Price:       950.00,
			Category:    CategoryScience,
			Rating:      4.9,
			RatingCount: 31,
			Tags:        []string{"Chemistry", "Pre-Med", "Science"},
			CreatedAt:   seedDate("2024-02-20"),
		},
		{
			ID:          "3",
			Title:       "Modern World History: Post-WWII",
			Description: "Summary of geopolitical shifts after 1945, the Cold War, and the fall of the Berlin Wall.",
			Body:        "The end of World War II saw the rise of two superpowers...",
			Author:      "Elena Rodriguez",
			Price:       0,
			Category:    CategoryHistory,
			Rating:      4.5,
			RatingCount: 8,
			Tags:        []string{"History", "World War II", "Geopolitics"},
			CreatedAt:   seedDate("2024-01-10"),
			IsFree:      true,
		},
		{
			ID:          "4",
			Title:       "Introduction to Microeconomics",
			Description: "Basic principles of supply and demand, elasticity, and market equilibrium.",
			Body:        "Economics is the study of how society manages its scarce resources...",
			Author:      "Prof. Miller",
			Price:       1200.00,
			Category:    CategoryBusiness,
			Rating:      4.2,
			RatingCount: 17,
			Tags:        []string{"Economics", "Business", "Finance"},
			CreatedAt:   seedDate("2024-03-01"),
		},
	}
}
