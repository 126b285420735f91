package seeder

func Defaults() []Seeder {
	return []Seeder{
		DemoJobsSeeder{},
		DemoCandidatesSeeder{},
	}
}
