package catalog

const (
	placeholderImageURL = "https://placehold.co/600x400.png"
	sampleVideoURL      = "https://www.youtube.com/embed/dQw4w9WgXcQ"
)

// DefaultTutorials returns the starter catalog loaded by `admin seedcatalog`.
func DefaultTutorials() []Tutorial {
	return []Tutorial{
		{
			ID:          "1",
			Slug:        "soil-health-basics",
			Title:       "Soil Health Basics",
			Description: "Understand the fundamentals of soil composition and health for better crop yield.",
			Category:    CategoryCropProduction,
			ImageURL:    placeholderImageURL,
			Lessons: []Lesson{
				{
					ID:       "1-1",
					Slug:     "intro-to-soil",
					Title:    "Introduction to Soil",
					VideoURL: sampleVideoURL,
					Content: "Soil is the foundation of agriculture. This lesson covers the basic components of soil: " +
						"minerals, organic matter, water, and air. We will explore how these components interact and why " +
						"they are crucial for plant growth. A healthy soil structure is vital for nutrient cycling and water retention.",
					Quiz: []QuizQuestion{
						{
							Question: "What are the four main components of soil?",
							Options: []string{
								"Rocks, Sand, Clay, Silt",
								"Minerals, Organic Matter, Water, Air",
								"Fertilizer, Pesticides, Water, Sun",
								"Nitrogen, Phosphorus, Potassium, Water",
							},
							CorrectAnswer: "Minerals, Organic Matter, Water, Air",
						},
					},
				},
				{
					ID:    "1-2",
					Slug:  "soil-testing",
					Title: "How to Test Your Soil",
					Content: "Learn the importance of soil testing and how to collect a proper sample. This lesson provides " +
						"step-by-step instructions on interpreting soil test results to make informed decisions about " +
						"fertilization and amendments.",
					Quiz: []QuizQuestion{
						{
							Question: "Why is soil testing important?",
							Options: []string{
								"To know the color of the soil",
								"To determine nutrient levels and pH",
								"To count the number of earthworms",
								"To measure soil temperature",
							},
							CorrectAnswer: "To determine nutrient levels and pH",
						},
					},
				},
			},
		},
		{
			ID:          "2",
			Slug:        "intro-fish-farming",
			Title:       "Introduction to Fish Farming",
			Description: "Get started with the basics of aquaculture and setting up your first fish pond.",
			Category:    CategoryFishFarming,
			ImageURL:    placeholderImageURL,
			Lessons: []Lesson{
				{
					ID:       "2-1",
					Slug:     "pond-design",
					Title:    "Pond Design and Construction",
					VideoURL: sampleVideoURL,
					Content: "Proper pond design is critical for a successful fish farm. This lesson covers site selection, " +
						"pond layout, and construction techniques. We will discuss water sources, drainage, and how to " +
						"create a healthy environment for your fish.",
					Quiz: []QuizQuestion{
						{
							Question: "What is a key consideration in pond site selection?",
							Options: []string{
								"Proximity to a busy road",
								"Access to a reliable water source",
								"The number of nearby trees",
								"The type of fish you like to eat",
							},
							CorrectAnswer: "Access to a reliable water source",
						},
					},
				},
			},
		},
		{
			ID:          "3",
			Slug:        "organic-pest-control",
			Title:       "Organic Pest Control",
			Description: "Learn how to manage pests in your farm using organic and sustainable methods.",
			Category:    CategoryPestControl,
			ImageURL:    placeholderImageURL,
			Lessons: []Lesson{
				{
					ID:    "3-1",
					Slug:  "identifying-pests",
					Title: "Identifying Common Pests",
					Content: "The first step to pest control is proper identification. Learn to recognize common garden pests " +
						"and the damage they cause. This lesson includes a visual guide to insects, mites, and other common " +
						"agricultural pests.",
					Quiz: []QuizQuestion{
						{
							Question: "What is the first step in effective pest control?",
							Options: []string{
								"Spraying pesticides everywhere",
								"Properly identifying the pest",
								"Bringing in ladybugs",
								"Watering the plants more",
							},
							CorrectAnswer: "Properly identifying the pest",
						},
					},
				},
			},
		},
		{
			ID:          "4",
			Slug:        "effective-fertilizer-use",
			Title:       "Effective Fertilizer Use",
			Description: "Maximize your crop yield by learning the right way to apply fertilizers.",
			Category:    CategoryCropProduction,
			ImageURL:    placeholderImageURL,
			Lessons: []Lesson{
				{
					ID:    "4-1",
					Slug:  "understanding-npk",
					Title: "Understanding N-P-K",
					Content: "N-P-K stands for Nitrogen, Phosphorus, and Potassium. These are the three primary macronutrients " +
						"essential for plant growth. This lesson explains the role of each nutrient and how to read fertilizer " +
						"labels to choose the right product for your crops.",
					Quiz: []QuizQuestion{
						{
							Question: "What does N-P-K stand for?",
							Options: []string{
								"Nitrate, Phosphate, Karbon",
								"Nitrogen, Phosphorus, Potassium",
								"Nourish, Plant, Keep",
								"New, Potent, Killer",
							},
							CorrectAnswer: "Nitrogen, Phosphorus, Potassium",
						},
					},
				},
			},
		},
	}
}
